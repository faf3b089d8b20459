package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SkillLevel is the surfer's ability.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// Valid reports whether s is a known skill level.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// SkillLevels lists every skill level in ascending ability.
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}
}

// TidePreference is the tide the surfer wants. TideAny matches every status.
type TidePreference string

const (
	TideAny      TidePreference = "Any"
	TidePrefHigh TidePreference = "High"
	TidePrefMid  TidePreference = "Mid"
	TidePrefLow  TidePreference = "Low"
)

// Valid reports whether p is a known tide preference.
func (p TidePreference) Valid() bool {
	switch p {
	case TideAny, TidePrefHigh, TidePrefMid, TidePrefLow:
		return true
	}
	return false
}

// Matches reports whether the observed status satisfies the preference.
func (p TidePreference) Matches(status TideStatus) bool {
	return p == TideAny || string(p) == string(status)
}

// BoardType is the board the surfer rides.
type BoardType string

const (
	BoardShortboard BoardType = "Shortboard"
	BoardLongboard  BoardType = "Longboard"
	BoardSoftTop    BoardType = "Soft-top"
)

// Valid reports whether b is a known board type.
func (b BoardType) Valid() bool {
	switch b {
	case BoardShortboard, BoardLongboard, BoardSoftTop:
		return true
	}
	return false
}

// ParseSkillLevel resolves a skill level case-insensitively.
func ParseSkillLevel(s string) (SkillLevel, error) {
	for _, v := range SkillLevels() {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: skill level %q", ErrInvalidPreferences, s)
}

// ParseTidePreference resolves a tide preference case-insensitively. An empty
// string means TideAny.
func ParseTidePreference(s string) (TidePreference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TideAny, nil
	}
	for _, v := range []TidePreference{TideAny, TidePrefHigh, TidePrefMid, TidePrefLow} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: tide preference %q", ErrInvalidPreferences, s)
}

// ParseBoardType resolves a board type case-insensitively. An empty string
// means BoardShortboard.
func ParseBoardType(s string) (BoardType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BoardShortboard, nil
	}
	for _, v := range []BoardType{BoardShortboard, BoardLongboard, BoardSoftTop} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: board type %q", ErrInvalidPreferences, s)
}

// Bound is an optional wave height limit in meters. A bound that was never
// set, or was set from something that is not a number, is reported as unset
// and replaced with a default by the scorer.
type Bound struct {
	Value float64
	Set   bool
}

// BoundOf returns a set bound holding v.
func BoundOf(v float64) Bound {
	return Bound{Value: v, Set: true}
}

// ParseBound reads a bound from text. Anything that does not parse as a
// number yields an unset bound.
func ParseBound(s string) Bound {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Bound{}
	}
	return BoundOf(v)
}

// Usable reports whether the bound holds a finite, non-negative value.
func (b Bound) Usable() bool {
	return b.Set && !math.IsNaN(b.Value) && !math.IsInf(b.Value, 0) && b.Value >= 0
}

// UnmarshalJSON accepts numbers and numeric strings. Other values leave the
// bound unset instead of failing the whole document.
func (b *Bound) UnmarshalJSON(data []byte) error {
	*b = Bound{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}
	*b = ParseBound(s)
	return nil
}

// MarshalJSON writes unset bounds as null.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.Usable() {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// Preferences describe what the surfer is looking for. They are passed
// explicitly with every ranking request.
type Preferences struct {
	SkillLevel     SkillLevel     `json:"skillLevel"`
	MinWaveHeight  Bound          `json:"minWaveHeight"`
	MaxWaveHeight  Bound          `json:"maxWaveHeight"`
	TidePreference TidePreference `json:"tidePreference"`
	BoardType      BoardType      `json:"boardType"`
}

// Validate rejects unknown enum values. Wave bounds are never rejected.
func (p Preferences) Validate() error {
	switch {
	case !p.SkillLevel.Valid():
		return fmt.Errorf("%w: skill level %q", ErrInvalidPreferences, p.SkillLevel)
	case !p.TidePreference.Valid():
		return fmt.Errorf("%w: tide preference %q", ErrInvalidPreferences, p.TidePreference)
	case !p.BoardType.Valid():
		return fmt.Errorf("%w: board type %q", ErrInvalidPreferences, p.BoardType)
	}
	return nil
}
