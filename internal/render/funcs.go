// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/virtualspaces/boothadmin/internal/model"
)

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"timeAgo": func(ts model.Timestamp) string {
			return model.TimeAgo(ts.Time, r.clock())
		},
		"truncate": truncate,
		"shortID": func(id string) string {
			return truncate(id, 8)
		},
		"lower": strings.ToLower,
		"add": func(a, b int) int {
			return a + b
		},
		"dict":     dict,
		"mediaURL": r.mediaURL,
		"describe": model.DescribeInteraction,
		"badge":    model.InteractionBadge,
		"query":    query,
	}
}

func (r *Renderer) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

func (r *Renderer) mediaURL(m model.MediaItem) string {
	return model.MediaURL(r.mediaBase, m.MediaType, m.FileName)
}

// truncate shortens s to length runes, appending "...".
func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	return string([]rune(s)[:length]) + "..."
}

// dict builds a map from alternating keys and values so partials can take
// named arguments.
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", values[i])
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// query builds base?k=v&... from alternating pairs, skipping empty values.
func query(base string, pairs ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			v.Set(pairs[i], pairs[i+1])
		}
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}
