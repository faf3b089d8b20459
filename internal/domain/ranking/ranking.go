// Package ranking orders spots by suitability.
package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/scoring"
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithScorer replaces the default rule scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithClock sets the clock used to pick the month for seasonal rules.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) {
		if now != nil {
			r.now = now
		}
	}
}

// Ranker scores every spot and sorts the result, highest suitability first.
// Spots with equal scores keep their input order.
type Ranker struct {
	scorer scoring.Scorer
	now    func() time.Time
}

// New creates a Ranker backed by a RuleScorer and the wall clock.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		scorer: scoring.NewRuleScorer(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores pairs for the current month.
func (r *Ranker) Rank(pairs []model.SpotForecast, prefs model.Preferences) ([]model.RankedSpot, error) {
	return r.RankForMonth(pairs, prefs, r.now().Month())
}

// RankForMonth scores pairs for month and returns them in descending order.
// An empty input yields an empty, non-nil slice.
func (r *Ranker) RankForMonth(pairs []model.SpotForecast, prefs model.Preferences, month time.Month) ([]model.RankedSpot, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	out := make([]model.RankedSpot, 0, len(pairs))
	for _, p := range pairs {
		res, err := r.scorer.Score(scoring.Input{
			Forecast:    p.Forecast,
			Preferences: prefs,
			Region:      p.Spot.Region,
			Month:       month,
		})
		if err != nil {
			return nil, fmt.Errorf("score spot %s: %w", p.Spot.ID, err)
		}
		out = append(out, model.RankedSpot{
			Spot:        p.Spot,
			Forecast:    p.Forecast,
			Suitability: res.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Suitability > out[j].Suitability
	})
	return out, nil
}
