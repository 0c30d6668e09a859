// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MediaType is the upper-case media kind used by the API.
type MediaType string

// Supported media types.
const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
	MediaAudio MediaType = "AUDIO"
	MediaPDF   MediaType = "PDF"
)

// MediaTypes lists the supported types in display order.
var MediaTypes = []MediaType{MediaImage, MediaVideo, MediaAudio, MediaPDF}

// maxPositions is the number of display slots per media type.
var maxPositions = map[MediaType]int{
	MediaImage: 4,
	MediaVideo: 3,
	MediaAudio: 1,
	MediaPDF:   4,
}

var titleCaser = cases.Title(language.English)

// ParseMediaType normalises s to a MediaType. The second result is false
// for types the dashboard does not manage.
func ParseMediaType(s string) (MediaType, bool) {
	t := MediaType(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := maxPositions[t]
	return t, ok
}

// MaxPositions returns the number of slots for t, zero when unknown.
func (t MediaType) MaxPositions() int {
	return maxPositions[t]
}

// PositionOptions returns the selectable positions 1..max for t.
func PositionOptions(t MediaType) []int {
	n := t.MaxPositions()
	opts := make([]int, n)
	for i := range opts {
		opts[i] = i + 1
	}
	return opts
}

// ValidPosition reports whether pos is a slot of t.
func (t MediaType) ValidPosition(pos int) bool {
	return pos >= 1 && pos <= t.MaxPositions()
}

// Label is the human name of the type ("Image", "PDF").
func (t MediaType) Label() string {
	if t == MediaPDF {
		return "PDF"
	}
	return titleCaser.String(strings.ToLower(string(t)))
}

// PluralLabel is the section heading for the type ("Images", "Audio").
func (t MediaType) PluralLabel() string {
	switch t {
	case MediaAudio:
		return "Audio"
	case MediaPDF:
		return "PDFs"
	}
	return t.Label() + "s"
}

// MediaItem is one uploaded asset.
type MediaItem struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	MediaType MediaType `json:"mediaType"`
	BoothID   string    `json:"boothId"`
	Position  int       `json:"mediaPosition"`
	CreatedAt Timestamp `json:"createdAt"`
}

// UnmarshalJSON accepts fileName or fileUrl for the file reference, a
// numeric or string position, and any casing of the media type.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		FileName  string          `json:"fileName"`
		FileURL   string          `json:"fileUrl"`
		FileURLLC string          `json:"fileurl"`
		MediaType string          `json:"mediaType"`
		BoothID   string          `json:"boothId"`
		Position  json.RawMessage `json:"mediaPosition"`
		CreatedAt Timestamp       `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = rawScalar(raw.ID)
	m.FileName = firstNonEmpty(raw.FileName, raw.FileURL, raw.FileURLLC)
	m.MediaType = MediaType(strings.ToUpper(strings.TrimSpace(raw.MediaType)))
	m.BoothID = raw.BoothID
	m.CreatedAt = raw.CreatedAt
	m.Position, _ = strconv.Atoi(rawScalar(raw.Position))
	return nil
}

// rawScalar returns a JSON string or number as text.
func rawScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MediaURL resolves a file reference against the media base URL. References
// that are already absolute are returned as they are.
func MediaURL(baseURL string, t MediaType, fileRef string) string {
	if strings.HasPrefix(fileRef, "http://") || strings.HasPrefix(fileRef, "https://") {
		return fileRef
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + strings.ToUpper(string(t)) + "/" + strings.TrimPrefix(fileRef, "/")
}

// BoothSummary is an entry of GET /booths.
type BoothSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Booth holds a booth's media bucketed by type.
type Booth struct {
	ID     string                    `json:"id"`
	Name   string                    `json:"name,omitempty"`
	Medias map[MediaType][]MediaItem `json:"medias"`
}

// Label returns the booth name or its id.
func (b Booth) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// Items returns the media of type t.
func (b Booth) Items(t MediaType) []MediaItem {
	return b.Medias[t]
}

// Count returns the total number of media items in the booth.
func (b Booth) Count() int {
	n := 0
	for _, items := range b.Medias {
		n += len(items)
	}
	return n
}

// GroupMedia groups a flat media list into booths in first-seen order.
// Every item lands exactly once, under its booth and upper-cased type; the
// four known buckets always exist.
func GroupMedia(items []MediaItem) []Booth {
	var booths []Booth
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.BoothID]
		if !ok {
			i = len(booths)
			index[item.BoothID] = i
			booths = append(booths, newBooth(item.BoothID))
		}
		t := MediaType(strings.ToUpper(string(item.MediaType)))
		item.MediaType = t
		booths[i].Medias[t] = append(booths[i].Medias[t], item)
	}
	return booths
}

func newBooth(id string) Booth {
	medias := make(map[MediaType][]MediaItem, len(MediaTypes))
	for _, t := range MediaTypes {
		medias[t] = []MediaItem{}
	}
	return Booth{ID: id, Medias: medias}
}

// WithListedBooth prepends an empty booth for id when the directory lists
// it but no media references it yet, so the first upload has a target.
func WithListedBooth(booths []Booth, summaries []BoothSummary, id string) []Booth {
	if _, ok := FindBooth(booths, id); ok {
		return booths
	}
	for _, s := range summaries {
		if s.ID == id {
			return append([]Booth{newBooth(id)}, booths...)
		}
	}
	return booths
}

// NameBooths fills booth names from a GET /booths listing.
func NameBooths(booths []Booth, summaries []BoothSummary) {
	names := make(map[string]string, len(summaries))
	for _, s := range summaries {
		names[s.ID] = s.Name
	}
	for i := range booths {
		if name := names[booths[i].ID]; name != "" {
			booths[i].Name = name
		}
	}
}

// FindBooth returns the booth with the given id.
func FindBooth(booths []Booth, id string) (Booth, bool) {
	for _, b := range booths {
		if b.ID == id {
			return b, true
		}
	}
	return Booth{}, false
}

// FindMedia looks up a media item across booths.
func FindMedia(booths []Booth, id string) (MediaItem, bool) {
	for _, b := range booths {
		for _, items := range b.Medias {
			for _, item := range items {
				if item.ID == id {
					return item, true
				}
			}
		}
	}
	return MediaItem{}, false
}
