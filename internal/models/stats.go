// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package models

import (
	"time"
)

// BucketCount is one row of a grouped count, e.g. clicks per country.
type BucketCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DailyCount is the number of clicks on one UTC calendar day.
// Date is formatted as YYYY-MM-DD.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// LinkStats is the full analytics aggregate for one link.
//
// Countries, Browsers, OperatingSystems and Referrers are capped at the
// top 10 values ordered by count descending, name ascending on ties.
// Devices is uncapped. ClicksByDay covers the trailing 30 days in UTC,
// ascending, with zero-click days omitted. RecentClicks holds the 20
// most recent clicks, newest first.
type LinkStats struct {
	TotalClicks      int64         `json:"total_clicks"`
	Countries        []BucketCount `json:"countries"`
	Browsers         []BucketCount `json:"browsers"`
	OperatingSystems []BucketCount `json:"operating_systems"`
	Devices          []BucketCount `json:"devices"`
	Referrers        []BucketCount `json:"referrers"`
	ClicksByDay      []DailyCount  `json:"clicks_by_day"`
	RecentClicks     []Click       `json:"recent_clicks"`
	GeneratedAt      time.Time     `json:"generated_at"`
}
