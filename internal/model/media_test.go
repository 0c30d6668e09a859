// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPositionOptions(t *testing.T) {
	tests := []struct {
		mediaType MediaType
		want      []int
	}{
		{MediaImage, []int{1, 2, 3, 4}},
		{MediaVideo, []int{1, 2, 3}},
		{MediaAudio, []int{1}},
		{MediaPDF, []int{1, 2, 3, 4}},
		{MediaType("GIF"), []int{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mediaType), func(t *testing.T) {
			got := PositionOptions(tt.mediaType)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PositionOptions(%s) = %v, want %v", tt.mediaType, got, tt.want)
			}
		})
	}
}

func TestValidPosition(t *testing.T) {
	tests := []struct {
		name      string
		mediaType MediaType
		pos       int
		want      bool
	}{
		{"pdf 4", MediaPDF, 4, true},
		{"pdf 5", MediaPDF, 5, false},
		{"audio 1", MediaAudio, 1, true},
		{"audio 2", MediaAudio, 2, false},
		{"zero", MediaImage, 0, false},
		{"unknown type", MediaType("DOC"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mediaType.ValidPosition(tt.pos); got != tt.want {
				t.Errorf("ValidPosition(%d) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestParseMediaType(t *testing.T) {
	if got, ok := ParseMediaType(" pdf "); !ok || got != MediaPDF {
		t.Errorf("ParseMediaType(pdf) = %q, %v", got, ok)
	}
	if _, ok := ParseMediaType("doc"); ok {
		t.Error("ParseMediaType(doc) should not be supported")
	}
}

func TestMediaTypeLabels(t *testing.T) {
	tests := []struct {
		mediaType MediaType
		label     string
		plural    string
	}{
		{MediaImage, "Image", "Images"},
		{MediaVideo, "Video", "Videos"},
		{MediaAudio, "Audio", "Audio"},
		{MediaPDF, "PDF", "PDFs"},
	}

	for _, tt := range tests {
		if got := tt.mediaType.Label(); got != tt.label {
			t.Errorf("%s.Label() = %q, want %q", tt.mediaType, got, tt.label)
		}
		if got := tt.mediaType.PluralLabel(); got != tt.plural {
			t.Errorf("%s.PluralLabel() = %q, want %q", tt.mediaType, got, tt.plural)
		}
	}
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		typ  MediaType
		ref  string
		want string
	}{
		{"base with slash", "https://cdn.example.com/booth/", MediaImage, "a.png", "https://cdn.example.com/booth/IMAGE/a.png"},
		{"base without slash", "https://cdn.example.com/booth", MediaPDF, "doc.pdf", "https://cdn.example.com/booth/PDF/doc.pdf"},
		{"lower case type", "https://cdn.example.com/", MediaType("video"), "v.mp4", "https://cdn.example.com/VIDEO/v.mp4"},
		{"absolute ref", "https://cdn.example.com/", MediaImage, "https://other.example.com/x.png", "https://other.example.com/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MediaURL(tt.base, tt.typ, tt.ref); got != tt.want {
				t.Errorf("MediaURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMediaItemUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want MediaItem
	}{
		{
			name: "canonical",
			json: `{"id":"m1","fileName":"a.png","mediaType":"IMAGE","boothId":"b1","mediaPosition":2}`,
			want: MediaItem{ID: "m1", FileName: "a.png", MediaType: MediaImage, BoothID: "b1", Position: 2},
		},
		{
			name: "legacy fields",
			json: `{"id":7,"fileurl":"v.mp4","mediaType":"video","boothId":"b1","mediaPosition":"3"}`,
			want: MediaItem{ID: "7", FileName: "v.mp4", MediaType: MediaVideo, BoothID: "b1", Position: 3},
		},
		{
			name: "fileUrl",
			json: `{"id":"m2","fileUrl":"d.pdf","mediaType":"Pdf","boothId":"b2","mediaPosition":1}`,
			want: MediaItem{ID: "m2", FileName: "d.pdf", MediaType: MediaPDF, BoothID: "b2", Position: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MediaItem
			if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGroupMedia(t *testing.T) {
	items := []MediaItem{
		{ID: "1", BoothID: "b1", MediaType: "image", Position: 1},
		{ID: "2", BoothID: "b2", MediaType: MediaPDF, Position: 1},
		{ID: "3", BoothID: "b1", MediaType: MediaVideo, Position: 2},
		{ID: "4", BoothID: "b1", MediaType: MediaImage, Position: 2},
		{ID: "5", BoothID: "b2", MediaType: "Audio", Position: 1},
	}

	booths := GroupMedia(items)
	if len(booths) != 2 {
		t.Fatalf("len(booths) = %d, want 2", len(booths))
	}
	if booths[0].ID != "b1" || booths[1].ID != "b2" {
		t.Errorf("booth order = %s, %s; want b1, b2", booths[0].ID, booths[1].ID)
	}

	seen := make(map[string]int)
	for _, b := range booths {
		for typ, bucket := range b.Medias {
			for _, item := range bucket {
				seen[item.ID]++
				if item.BoothID != b.ID {
					t.Errorf("item %s in booth %s, want %s", item.ID, b.ID, item.BoothID)
				}
				if item.MediaType != typ {
					t.Errorf("item %s under %s, has type %s", item.ID, typ, item.MediaType)
				}
			}
		}
	}
	for _, item := range items {
		if seen[item.ID] != 1 {
			t.Errorf("item %s appears %d times, want 1", item.ID, seen[item.ID])
		}
	}

	if got := len(booths[0].Items(MediaImage)); got != 2 {
		t.Errorf("b1 images = %d, want 2", got)
	}
	if got := booths[1].Items(MediaVideo); got == nil || len(got) != 0 {
		t.Errorf("b2 videos = %v, want empty bucket", got)
	}
	if got := booths[0].Count(); got != 3 {
		t.Errorf("b1 Count() = %d, want 3", got)
	}
}

func TestGroupMediaEmpty(t *testing.T) {
	if got := GroupMedia(nil); len(got) != 0 {
		t.Errorf("GroupMedia(nil) = %v, want empty", got)
	}
}

func TestNameBoothsAndFind(t *testing.T) {
	booths := GroupMedia([]MediaItem{
		{ID: "m1", BoothID: "b1", MediaType: MediaImage},
		{ID: "m2", BoothID: "b2", MediaType: MediaPDF},
	})
	NameBooths(booths, []BoothSummary{{ID: "b1", Name: "Pevonia"}})

	if booths[0].Label() != "Pevonia" {
		t.Errorf("booths[0].Label() = %q, want Pevonia", booths[0].Label())
	}
	if booths[1].Label() != "b2" {
		t.Errorf("booths[1].Label() = %q, want b2", booths[1].Label())
	}

	if _, ok := FindBooth(booths, "b2"); !ok {
		t.Error("FindBooth(b2) not found")
	}
	item, ok := FindMedia(booths, "m2")
	if !ok || item.BoothID != "b2" {
		t.Errorf("FindMedia(m2) = %+v, %v", item, ok)
	}
	if _, ok := FindMedia(booths, "missing"); ok {
		t.Error("FindMedia(missing) should fail")
	}
}

func TestWithListedBooth(t *testing.T) {
	dir := []BoothSummary{{ID: "b1", Name: "Pevonia"}}

	got := WithListedBooth(nil, dir, "b1")
	if len(got) != 1 || got[0].ID != "b1" || got[0].Count() != 0 {
		t.Fatalf("WithListedBooth(nil) = %+v", got)
	}
	if len(got[0].Items(MediaPDF)) != 0 || got[0].Medias[MediaPDF] == nil {
		t.Error("seeded booth should carry empty buckets")
	}

	if got := WithListedBooth(nil, dir, "unlisted"); len(got) != 0 {
		t.Errorf("unlisted booth seeded: %+v", got)
	}

	existing := GroupMedia([]MediaItem{{ID: "m1", BoothID: "b1", MediaType: MediaImage}})
	if got := WithListedBooth(existing, dir, "b1"); len(got) != 1 || got[0].Count() != 1 {
		t.Errorf("existing booth replaced: %+v", got)
	}
}
