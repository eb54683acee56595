// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Layouts accepted when reading created_at. Files written by older versions
// of the tool carry a zone-less ISO-8601 value with microseconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is an ISO-8601 instant as stored in the history file.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, dropping the monotonic clock reading so that values
// compare equal after a save/load round trip.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0)}
}

// MarshalJSON writes the instant as RFC 3339 with fractional seconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339 as well as zone-less ISO-8601 (read as local time).
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "created_at must be a string")
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses any of the accepted created_at layouts.
func ParseTimestamp(s string) (time.Time, error) {
	for i, layout := range timestampLayouts {
		var (
			parsed time.Time
			err    error
		)
		if i == 0 {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid created_at timestamp %q", s)
}
