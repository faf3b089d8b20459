// Package scoring computes how suitable a spot's conditions are for a surfer.
//
// Scores start at 100, lose points for every rule the conditions break and
// are clamped to [0,100] once, after all rules are applied. The scorer does
// no I/O and keeps no state between calls.
package scoring

import (
	"fmt"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
)

// Scoring constants.
const (
	baseScore = 100
	minScore  = 0
	maxScore  = 100

	DefaultMinWaveHeight = 0.5
	DefaultMaxWaveHeight = 2.5
)

// Rule names reported in Result.Deductions.
const (
	RuleSkill  = "skill"
	RuleRange  = "wave_range"
	RulePeriod = "period"
	RuleWind   = "wind"
	RuleShore  = "offshore"
	RuleTide   = "tide"
	RuleSeason = "season"
)

// Option applies a configuration option to the RuleScorer.
type Option func(*RuleScorer)

// WithDefaultWaveRange replaces the range used when a preference bound is
// unusable. Ranges with a negative or inverted bound are ignored.
func WithDefaultWaveRange(minHeight, maxHeight float64) Option {
	return func(s *RuleScorer) {
		if minHeight >= 0 && maxHeight >= minHeight {
			s.defaultMin = minHeight
			s.defaultMax = maxHeight
		}
	}
}

// Input holds everything a score depends on.
type Input struct {
	Forecast    model.ForecastRecord
	Preferences model.Preferences
	Region      model.Region
	Month       time.Month
}

// Deduction records the points a single rule removed.
type Deduction struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// Result is the clamped score plus the raw total and its deductions.
type Result struct {
	Score      int
	Raw        int
	Deductions []Deduction
}

// Scorer computes a suitability score.
type Scorer interface {
	Score(in Input) (Result, error)
}

// RuleScorer implements Scorer with the fixed additive rule set.
type RuleScorer struct {
	defaultMin float64
	defaultMax float64
}

// NewRuleScorer creates a scorer with the default wave range of 0.5 to 2.5 meters.
func NewRuleScorer(opts ...Option) *RuleScorer {
	s := &RuleScorer{
		defaultMin: DefaultMinWaveHeight,
		defaultMax: DefaultMaxWaveHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score applies every rule to in. It fails only for unknown enum values or
// an invalid month; wave bounds are sanitized instead.
func (s *RuleScorer) Score(in Input) (Result, error) {
	if err := in.Preferences.Validate(); err != nil {
		return Result{}, err
	}
	if !in.Region.Valid() {
		return Result{}, fmt.Errorf("%w: %q", model.ErrUnknownRegion, in.Region)
	}
	if in.Month < time.January || in.Month > time.December {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidMonth, in.Month)
	}

	f := in.Forecast
	p := in.Preferences
	minHeight, maxHeight := s.WaveRange(p)

	var deductions []Deduction
	deduct := func(rule string, points int) {
		if points > 0 {
			deductions = append(deductions, Deduction{Rule: rule, Points: points})
		}
	}

	deduct(RuleSkill, skillPenalty(p.SkillLevel, f.WaveHeight))
	if f.WaveHeight < minHeight || f.WaveHeight > maxHeight {
		deduct(RuleRange, 25)
	}
	deduct(RulePeriod, periodPenalty(p.BoardType, f.WavePeriod))
	deduct(RuleWind, windPenalty(f.WindSpeed))
	if !IsOffshore(in.Region, f.WindDirection) {
		deduct(RuleShore, 30)
	}
	if !p.TidePreference.Matches(f.Tide.Status) {
		deduct(RuleTide, 15)
	}
	if !InSeason(in.Region, in.Month) {
		deduct(RuleSeason, 60)
	}

	raw := baseScore
	for _, d := range deductions {
		raw -= d.Points
	}
	return Result{Score: clamp(raw), Raw: raw, Deductions: deductions}, nil
}

// WaveRange returns the usable wave range for p. Unusable bounds fall back
// to the defaults and an inverted range is swapped.
func (s *RuleScorer) WaveRange(p model.Preferences) (float64, float64) {
	minHeight, maxHeight := s.defaultMin, s.defaultMax
	if p.MinWaveHeight.Usable() {
		minHeight = p.MinWaveHeight.Value
	}
	if p.MaxWaveHeight.Usable() {
		maxHeight = p.MaxWaveHeight.Value
	}
	if minHeight > maxHeight {
		minHeight, maxHeight = maxHeight, minHeight
	}
	return minHeight, maxHeight
}

func skillPenalty(skill model.SkillLevel, height float64) int {
	switch skill {
	case model.SkillBeginner:
		if height > 1.5 {
			return 60
		}
		if height > 1.0 {
			return 30
		}
	case model.SkillIntermediate:
		if height < 0.8 {
			return 20
		}
		if height > 2.5 {
			return 40
		}
	case model.SkillAdvanced:
		if height < 1.5 {
			return 30
		}
	}
	return 0
}

func periodPenalty(board model.BoardType, period float64) int {
	if board == model.BoardShortboard {
		if period < 9 {
			return 20
		}
		return 0
	}
	if period > 12 {
		return 15
	}
	return 0
}

func windPenalty(speed float64) int {
	switch {
	case speed > 25:
		return 50
	case speed > 15:
		return 25
	}
	return 0
}

// IsOffshore reports whether wind from direction blows offshore on the
// region's coast. East Coast takes (240,300); South Coast takes (330,360)
// and [0,30).
func IsOffshore(region model.Region, direction float64) bool {
	switch region {
	case model.RegionEastCoast:
		return direction > 240 && direction < 300
	case model.RegionSouthCoast:
		return (direction > 330 && direction < 360) || (direction >= 0 && direction < 30)
	}
	return false
}

// InSeason reports whether month falls in the region's surf season. The East
// Coast runs April through October and the South Coast covers the rest.
func InSeason(region model.Region, month time.Month) bool {
	eastSeason := month >= time.April && month <= time.October
	switch region {
	case model.RegionEastCoast:
		return eastSeason
	case model.RegionSouthCoast:
		return !eastSeason
	}
	return false
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
