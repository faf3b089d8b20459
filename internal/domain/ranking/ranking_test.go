package ranking_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/ranking"
	"github.com/okian/surfcast/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedScorer map[string]int

func (f fixedScorer) Score(in scoring.Input) (scoring.Result, error) {
	// keyed by wave height so tests can address spots through their forecast
	s, ok := f[fmt.Sprint(in.Forecast.WaveHeight)]
	if !ok {
		return scoring.Result{}, errors.New("no score")
	}
	return scoring.Result{Score: s, Raw: s}, nil
}

func pair(id string, region model.Region, height float64) model.SpotForecast {
	return model.SpotForecast{
		Spot: model.Spot{ID: id, Name: "spot " + id, Region: region},
		Forecast: model.ForecastRecord{
			WaveHeight:    height,
			WavePeriod:    10,
			WindSpeed:     5,
			WindDirection: 270,
			Tide:          model.Tide{Status: model.TideMid},
		},
	}
}

func prefs() model.Preferences {
	return model.Preferences{
		SkillLevel:     model.SkillIntermediate,
		TidePreference: model.TideAny,
		BoardType:      model.BoardShortboard,
	}
}

func ids(spots []model.RankedSpot) []string {
	out := make([]string, len(spots))
	for i, s := range spots {
		out[i] = s.ID
	}
	return out
}

func TestRanker(t *testing.T) {
	Convey("Given a ranker with the rule scorer", t, func() {
		june := func() time.Time { return time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC) }
		r := ranking.New(ranking.WithClock(june))

		Convey("When ranking no spots", func() {
			out, err := r.Rank(nil, prefs())

			Convey("Then the result is empty but not nil", func() {
				So(err, ShouldBeNil)
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When ranking spots on both coasts in June", func() {
			pairs := []model.SpotForecast{
				pair("south", model.RegionSouthCoast, 1.2),
				pair("east", model.RegionEastCoast, 1.2),
			}
			out, err := r.Rank(pairs, prefs())

			Convey("Then the in-season coast comes first", func() {
				So(err, ShouldBeNil)
				So(ids(out), ShouldResemble, []string{"east", "south"})
				So(out[0].Suitability, ShouldEqual, 100)
				So(out[1].Suitability, ShouldEqual, 10)
				So(out[0].Forecast, ShouldResemble, pairs[1].Forecast)
			})
		})

		Convey("When the month is given explicitly", func() {
			pairs := []model.SpotForecast{pair("east", model.RegionEastCoast, 1.2)}
			out, err := r.RankForMonth(pairs, prefs(), time.January)

			Convey("Then the clock is ignored", func() {
				So(err, ShouldBeNil)
				So(out[0].Suitability, ShouldEqual, 40)
			})
		})

		Convey("When preferences are invalid", func() {
			p := prefs()
			p.BoardType = "Bodyboard"
			_, err := r.Rank([]model.SpotForecast{pair("1", model.RegionEastCoast, 1)}, p)

			Convey("Then ranking fails", func() {
				So(errors.Is(err, model.ErrInvalidPreferences), ShouldBeTrue)
			})
		})

		Convey("When a spot has an unknown region", func() {
			_, err := r.Rank([]model.SpotForecast{pair("9", "West Coast", 1)}, prefs())

			Convey("Then ranking fails naming the spot", func() {
				So(errors.Is(err, model.ErrUnknownRegion), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "spot 9")
			})
		})
	})
}

func TestRankerStability(t *testing.T) {
	Convey("Given a scorer that ties several spots", t, func() {
		r := ranking.New(ranking.WithScorer(fixedScorer{"1": 50, "2": 80, "3": 50, "4": 50, "5": 20}))
		base := []model.SpotForecast{
			pair("a", model.RegionEastCoast, 1),
			pair("b", model.RegionEastCoast, 2),
			pair("c", model.RegionEastCoast, 3),
			pair("d", model.RegionEastCoast, 4),
			pair("e", model.RegionEastCoast, 5),
		}

		Convey("Then ties keep their input order for every permutation", func() {
			perms := [][]int{{0, 1, 2, 3, 4}, {3, 2, 0, 4, 1}, {4, 3, 2, 1, 0}, {2, 0, 3, 1, 4}}
			for _, perm := range perms {
				in := make([]model.SpotForecast, len(perm))
				var tied []string
				for i, idx := range perm {
					in[i] = base[idx]
					if id := base[idx].Spot.ID; id == "a" || id == "c" || id == "d" {
						tied = append(tied, id)
					}
				}
				out, err := r.Rank(in, prefs())
				So(err, ShouldBeNil)
				got := ids(out)
				So(got[0], ShouldEqual, "b")
				So(got[1:4], ShouldResemble, tied)
				So(got[4], ShouldEqual, "e")
			}
		})

		Convey("Then the output is non-increasing", func() {
			out, err := r.Rank(base, prefs())
			So(err, ShouldBeNil)
			for i := 1; i < len(out); i++ {
				So(out[i].Suitability, ShouldBeLessThanOrEqualTo, out[i-1].Suitability)
			}
		})

		Convey("Then a scorer failure aborts the whole ranking", func() {
			_, err := r.Rank(append(base, pair("z", model.RegionEastCoast, 9)), prefs())
			So(err, ShouldNotBeNil)
		})
	})
}
