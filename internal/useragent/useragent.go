// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package useragent classifies raw User-Agent strings into the browser,
// operating system and device dimensions recorded with each click.
//
// Parsing is best-effort: an empty or unrecognizable string yields nil
// for every dimension and never fails click recording.
package useragent

import (
	ua "github.com/mileusna/useragent"
)

// Device labels. Bot outranks mobile, mobile outranks tablet, tablet
// outranks desktop; anything unmatched is DeviceOther.
const (
	DeviceBot     = "Bot"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
	DeviceOther   = "Other"
)

// Classification holds the parsed dimensions of a User-Agent string.
// Browser and OS are nil when the respective family is unknown; Device
// is nil only for an empty input string.
type Classification struct {
	Browser *string
	OS      *string
	Device  *string
}

// Classify parses a raw User-Agent string. An empty string returns a
// zero Classification with all fields nil.
func Classify(rawUA string) Classification {
	if rawUA == "" {
		return Classification{}
	}

	parsed := ua.Parse(rawUA)

	return Classification{
		Browser: familyVersion(parsed.Name, parsed.Version),
		OS:      familyVersion(parsed.OS, parsed.OSVersion),
		Device:  ptr(deviceType(parsed)),
	}
}

// familyVersion renders "Family Version", or just "Family" when no
// version was parsed. Unknown family yields nil.
func familyVersion(family, version string) *string {
	if family == "" {
		return nil
	}
	if version == "" {
		return ptr(family)
	}
	return ptr(family + " " + version)
}

func deviceType(parsed ua.UserAgent) string {
	switch {
	case parsed.Bot:
		return DeviceBot
	case parsed.Mobile:
		return DeviceMobile
	case parsed.Tablet:
		return DeviceTablet
	case parsed.Desktop:
		return DeviceDesktop
	default:
		return DeviceOther
	}
}

func ptr(s string) *string {
	return &s
}
