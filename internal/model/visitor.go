// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Visitor is an attendee who visited the booth.
type Visitor struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	Institution     string    `json:"institution,omitempty"`
	Location        string    `json:"location,omitempty"`
	VisitCount      int       `json:"visitCount"`
	CreatedAt       Timestamp `json:"createdAt"`
	RecentEntryTime Timestamp `json:"recentEntryTime"`
	RecentExitTime  Timestamp `json:"recentExitTime"`
}

// LocationLabel returns the location or "Unknown".
func (v Visitor) LocationLabel() string {
	if strings.TrimSpace(v.Location) == "" {
		return "Unknown"
	}
	return v.Location
}

// SearchVisitors keeps visitors whose username, email or location contains
// query, ignoring case. An empty query returns the input unchanged.
func SearchVisitors(visitors []Visitor, query string) []Visitor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return visitors
	}
	out := make([]Visitor, 0, len(visitors))
	for _, v := range visitors {
		if strings.Contains(strings.ToLower(v.Username), q) ||
			strings.Contains(strings.ToLower(v.Email), q) ||
			strings.Contains(strings.ToLower(v.Location), q) {
			out = append(out, v)
		}
	}
	return out
}

// FindVisitor returns the visitor with the given id.
func FindVisitor(visitors []Visitor, id string) (Visitor, bool) {
	for _, v := range visitors {
		if v.ID == id {
			return v, true
		}
	}
	return Visitor{}, false
}

// Interaction is one logged action of a visitor at the booth.
type Interaction struct {
	ID            string    `json:"id"`
	BoothID       string    `json:"boothId"`
	VisitorID     string    `json:"visitorId"`
	ActionElement string    `json:"actionElement"`
	ActionType    string    `json:"actionType"`
	ActionSubType string    `json:"actionSubType,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// InteractionCategory is a filter bucket on the Users tab.
type InteractionCategory string

// Interaction categories. Every category but All is matched as a keyword
// inside the action type.
const (
	CategoryAll   InteractionCategory = "all"
	CategoryPDF   InteractionCategory = "pdf"
	CategoryVideo InteractionCategory = "video"
	CategoryImage InteractionCategory = "image"
	CategoryLogin InteractionCategory = "login"
	CategoryEntry InteractionCategory = "entry"
	CategoryExit  InteractionCategory = "exit"
)

// InteractionCategories lists the categories in display order.
var InteractionCategories = []InteractionCategory{
	CategoryAll, CategoryPDF, CategoryVideo, CategoryImage,
	CategoryLogin, CategoryEntry, CategoryExit,
}

// ParseCategory maps a query value onto a category, defaulting to All.
func ParseCategory(s string) InteractionCategory {
	c := InteractionCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range InteractionCategories {
		if c == known {
			return c
		}
	}
	return CategoryAll
}

// Label is the filter button text ("All", "PDF", "Video").
func (c InteractionCategory) Label() string {
	if c == CategoryPDF {
		return "PDF"
	}
	return titleCaser.String(string(c))
}

// Matches reports whether the interaction falls into category c.
func (c InteractionCategory) Matches(i Interaction) bool {
	if c == CategoryAll {
		return true
	}
	return strings.Contains(strings.ToLower(i.ActionType), string(c))
}

// FilterInteractions returns the interactions in category c, preserving
// order. All returns the input unchanged.
func FilterInteractions(interactions []Interaction, c InteractionCategory) []Interaction {
	if c == CategoryAll {
		return interactions
	}
	out := make([]Interaction, 0, len(interactions))
	for _, i := range interactions {
		if c.Matches(i) {
			out = append(out, i)
		}
	}
	return out
}

// CountByCategory returns how many interactions fall in each category.
func CountByCategory(interactions []Interaction) map[InteractionCategory]int {
	counts := make(map[InteractionCategory]int, len(InteractionCategories))
	for _, c := range InteractionCategories {
		counts[c] = len(FilterInteractions(interactions, c))
	}
	return counts
}

// DescribeInteraction renders a human sentence for the interaction.
func DescribeInteraction(i Interaction) string {
	element := i.ActionElement
	switch i.ActionType {
	case "click":
		switch element {
		case "pdf":
			return "Downloaded PDF"
		case "link":
			return "Clicked on link"
		case "button":
			return "Clicked button"
		}
		return "Clicked on " + element
	case "view":
		if strings.HasPrefix(element, "booth") {
			return "Viewed booth"
		}
		if element == "product" {
			return "Viewed product details"
		}
		return "Viewed " + element
	case "watch":
		return "Watched video"
	case "download":
		return "Downloaded " + element
	case "login":
		return "Logged in"
	case "logout":
		return "Logged out"
	}
	return fmt.Sprintf("%s %s", i.ActionType, element)
}

// BadgeKind selects the badge colour.
type BadgeKind string

// Badge kinds.
const (
	BadgeNone    BadgeKind = ""
	BadgeSuccess BadgeKind = "success"
	BadgeInfo    BadgeKind = "info"
)

// Badge is the status shown next to an interaction.
type Badge struct {
	Text string
	Kind BadgeKind
}

// InteractionBadge derives the status badge for an interaction.
func InteractionBadge(i Interaction) Badge {
	switch {
	case i.ActionSubType != "":
		return Badge{Text: i.ActionSubType, Kind: BadgeInfo}
	case i.ActionType == "watch":
		return Badge{Text: "100% Watched", Kind: BadgeSuccess}
	case i.ActionType == "download", i.ActionType == "click" && i.ActionElement == "pdf":
		return Badge{Text: "Downloaded", Kind: BadgeInfo}
	case i.ActionType == "login":
		return Badge{Text: "Successful", Kind: BadgeSuccess}
	}
	return Badge{Text: "-"}
}
