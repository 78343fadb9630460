package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the zone-less ISO 8601 forms written by
// older JSON documents, e.g. "2024-05-01T10:20:30.123456".
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// decodeTimestamp reads a JSON created_at value. null and "" leave the zero time.
func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return time.Time{}, fmt.Errorf("created_at: %w", err)
	}
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_at: %w", err)
	}
	return t, nil
}

// UnmarshalJSON accepts zone-less created_at values as well as RFC 3339.
func (s *Seller) UnmarshalJSON(data []byte) error {
	type plain Seller
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"created_at"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := decodeTimestamp(aux.CreatedAt)
	if err != nil {
		return err
	}
	s.CreatedAt = t
	return nil
}

// UnmarshalJSON accepts zone-less created_at values as well as RFC 3339.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"created_at"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := decodeTimestamp(aux.CreatedAt)
	if err != nil {
		return err
	}
	p.CreatedAt = t
	return nil
}
