package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scene is one storyboard unit. Image holds a data URI; nil means no image.
type Scene struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	VisualDescription string  `json:"visualDescription"`
	AudioNarration    string  `json:"audioNarration"`
	Notes             string  `json:"notes"`
	Duration          int     `json:"duration"`
	Image             *string `json:"image"`
}

// NewScene builds a scene for the given id. position is 1-based and only used
// for the default title.
func NewScene(id, position int) Scene {
	return Scene{
		ID:       id,
		Title:    fmt.Sprintf("Scene %d", position),
		Duration: DefaultDuration,
	}
}

func (s Scene) Clone() Scene {
	if s.Image != nil {
		img := *s.Image
		s.Image = &img
	}
	return s
}

func (s Scene) HasImage() bool {
	return s.Image != nil && *s.Image != ""
}

// EffectiveDuration is the duration views display: missing or invalid
// durations count as DefaultDuration.
func (s Scene) EffectiveDuration() int {
	if s.Duration <= 0 {
		return DefaultDuration
	}
	return s.Duration
}

// CoerceDuration converts an edit value to a duration in seconds. Integers,
// floats and numeric strings are accepted; a string is read up to its first
// non-digit ("12s" is 12). Anything non-positive or unreadable becomes
// DefaultDuration.
func CoerceDuration(v any) int {
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int32:
		n = int(val)
	case int64:
		n = int(val)
	case float32:
		n = truncate(float64(val))
	case float64:
		n = truncate(val)
	case json.Number:
		n = leadingInt(val.String())
	case string:
		n = leadingInt(val)
	}
	if n <= 0 {
		return DefaultDuration
	}
	return n
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// UnmarshalJSON decodes a scene without ever failing on its shape. Imported
// and stored scenes are not validated; wrong-typed or missing fields decode
// to their zero value and views fall back to defaults.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = Scene{}
		return nil
	}

	*s = Scene{
		ID:                intField(raw["id"]),
		Title:             stringField(raw["title"]),
		VisualDescription: stringField(raw["visualDescription"]),
		AudioNarration:    stringField(raw["audioNarration"]),
		Notes:             stringField(raw["notes"]),
		Duration:          intField(raw["duration"]),
	}
	if img := stringField(raw["image"]); img != "" {
		s.Image = &img
	}
	return nil
}

func stringField(raw json.RawMessage) string {
	var str string
	if len(raw) == 0 || json.Unmarshal(raw, &str) != nil {
		return ""
	}
	return str
}

func intField(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return truncate(f)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return leadingInt(str)
	}
	return 0
}
