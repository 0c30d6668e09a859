// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// TimeAgo describes t relative to now in coarse buckets. Anything older
// than yesterday is shown as a date.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	d := now.Sub(t)
	minutes := int(d / time.Minute)
	hours := int(d / time.Hour)
	days := hours / 24

	switch {
	case d < time.Minute:
		return "Just now"
	case minutes < 2:
		return "1 minute ago"
	case minutes <= 4:
		return "1 to 4 minutes ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case hours < 2:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}
