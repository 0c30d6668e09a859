// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"strings"
)

// LocationCount is the number of visits from one location.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Analytics is the aggregate returned by GET /admin/{boothId}/users/analytics.
type Analytics struct {
	TotalUsers   int             `json:"totalUsers"`
	TotalVisits  int             `json:"totalVisits"`
	LocationData []LocationCount `json:"locationData"`
}

// AverageVisits formats visits per user to two decimals.
func (a Analytics) AverageVisits() string {
	return Ratio(a.TotalVisits, a.TotalUsers, 1)
}

// LocationShare is a location row ready for display.
type LocationShare struct {
	Location string
	Count    int
	Percent  string
}

// LocationShares returns the location rows sorted by count, largest first.
// Blank locations are labelled "Unknown".
func (a Analytics) LocationShares() []LocationShare {
	rows := make([]LocationShare, 0, len(a.LocationData))
	for _, l := range a.LocationData {
		name := strings.TrimSpace(l.Location)
		if name == "" {
			name = "Unknown"
		}
		rows = append(rows, LocationShare{
			Location: name,
			Count:    l.Count,
			Percent:  Ratio(l.Count, a.TotalVisits, 100),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// Ratio formats n/d*scale to two decimals, "0.00" when d is zero.
func Ratio(n, d int, scale float64) string {
	if d == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(n)/float64(d)*scale)
}
