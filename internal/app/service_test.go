package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/surfcast/internal/app"
	"github.com/okian/surfcast/internal/adapters/forecast"
	"github.com/okian/surfcast/internal/adapters/registry"
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type stubSource struct {
	fetch func(ctx context.Context, spots []model.Spot) (forecast.Snapshot, error)
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchAll(ctx context.Context, spots []model.Spot) (forecast.Snapshot, error) {
	s.calls++
	return s.fetch(ctx, spots)
}

// uniform returns the same record for every spot.
func uniform(rec model.ForecastRecord) *stubSource {
	return &stubSource{fetch: func(_ context.Context, spots []model.Spot) (forecast.Snapshot, error) {
		snap := make(forecast.Snapshot, len(spots))
		for _, sp := range spots {
			snap[sp.ID] = rec
		}
		return snap, nil
	}}
}

func july() time.Time { return time.Date(2026, time.July, 15, 9, 0, 0, 0, time.UTC) }

func intermediate() model.Preferences {
	return model.Preferences{
		SkillLevel:     model.SkillIntermediate,
		TidePreference: model.TideAny,
		BoardType:      model.BoardShortboard,
	}
}

var eastOffshore = model.ForecastRecord{
	WaveHeight:    1.5,
	WavePeriod:    10,
	WindSpeed:     5,
	WindDirection: 270,
	Tide:          model.Tide{Status: model.TideHigh, Next: "Low at 15:00"},
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should rank the built-in spots", func() {
			So(svc, ShouldNotBeNil)
			spots, err := svc.Spots(context.Background())
			So(err, ShouldBeNil)
			So(spots, ShouldHaveLength, len(registry.DefaultSpots()))
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithSource(uniform(eastOffshore)),
			service.WithForecastTimeout(time.Second),
			service.WithClock(july),
			service.WithLogger(logger.Discard()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["forecastSource"], ShouldEqual, "stub")
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["backgroundRefresh"], ShouldEqual, false)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again should be safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Rank(t *testing.T) {
	Convey("Given a service with an east coast offshore forecast in July", t, func() {
		src := uniform(eastOffshore)
		svc := service.New(
			service.WithSource(src),
			service.WithClock(july),
			service.WithRequestIDs(func() string { return "req-1" }),
		)
		ctx := context.Background()

		Convey("When ranking for an intermediate surfer", func() {
			res, err := svc.Rank(ctx, intermediate())

			Convey("Then every spot should be ranked best first", func() {
				So(err, ShouldBeNil)
				So(res.RequestID, ShouldEqual, "req-1")
				So(res.Month, ShouldEqual, 7)
				So(res.Spots, ShouldHaveLength, 5)

				ids := make([]string, 0, len(res.Spots))
				for _, sp := range res.Spots {
					ids = append(ids, sp.ID)
				}
				So(ids, ShouldResemble, []string{"1", "5", "2", "3", "4"})
			})

			Convey("And east coast spots should score full marks", func() {
				So(res.Spots[0].Suitability, ShouldEqual, 100)
				So(res.Spots[1].Suitability, ShouldEqual, 100)
			})

			Convey("And south coast spots should lose wind and season points", func() {
				for _, sp := range res.Spots[2:] {
					So(sp.Suitability, ShouldEqual, 10)
				}
			})

			Convey("And the forecast should be attached to each spot", func() {
				So(res.Spots[0].Forecast, ShouldResemble, eastOffshore)
			})
		})

		Convey("When ranking twice", func() {
			first, err1 := svc.Rank(ctx, intermediate())
			second, err2 := svc.Rank(ctx, intermediate())

			Convey("Then results should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second.Spots, ShouldResemble, first.Spots)
				So(src.calls, ShouldEqual, 2)
			})

			Convey("And stats should count the requests", func() {
				stats := svc.GetStats()
				So(stats["rankRequests"], ShouldEqual, int64(2))
				So(stats["rankFailures"], ShouldEqual, int64(0))
				So(stats["lastRankAt"], ShouldEqual, "2026-07-15T09:00:00Z")
			})
		})
	})
}

func TestService_RankRejectsBadPreferences(t *testing.T) {
	Convey("Given a service", t, func() {
		src := uniform(eastOffshore)
		svc := service.New(service.WithSource(src))

		Convey("When the skill level is unknown", func() {
			prefs := intermediate()
			prefs.SkillLevel = "Expert"
			_, err := svc.Rank(context.Background(), prefs)

			Convey("Then it should fail fast without fetching forecasts", func() {
				So(errors.Is(err, model.ErrInvalidPreferences), ShouldBeTrue)
				So(src.calls, ShouldEqual, 0)
				So(svc.GetStats()["rankFailures"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_RankForecastFailures(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()

		Convey("When the source fails", func() {
			boom := errors.New("boom")
			svc := service.New(service.WithSource(&stubSource{
				fetch: func(context.Context, []model.Spot) (forecast.Snapshot, error) { return nil, boom },
			}))
			_, err := svc.Rank(ctx, intermediate())

			Convey("Then the ranking should be unavailable", func() {
				So(errors.Is(err, forecast.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When a spot has no forecast", func() {
			svc := service.New(service.WithSource(&stubSource{
				fetch: func(_ context.Context, spots []model.Spot) (forecast.Snapshot, error) {
					return forecast.Snapshot{spots[0].ID: eastOffshore}, nil
				},
			}))
			_, err := svc.Rank(ctx, intermediate())

			Convey("Then no partial ranking should be returned", func() {
				So(errors.Is(err, forecast.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, forecast.ErrIncomplete), ShouldBeTrue)
			})
		})

		Convey("When a forecast is malformed", func() {
			bad := eastOffshore
			bad.WindDirection = 360
			svc := service.New(service.WithSource(uniform(bad)))
			_, err := svc.Rank(ctx, intermediate())

			Convey("Then the ranking should be unavailable", func() {
				So(errors.Is(err, forecast.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, model.ErrMalformedForecast), ShouldBeTrue)
			})
		})

		Convey("When the source is slower than the forecast timeout", func() {
			svc := service.New(
				service.WithForecastTimeout(20*time.Millisecond),
				service.WithSource(&stubSource{
					fetch: func(ctx context.Context, _ []model.Spot) (forecast.Snapshot, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					},
				}),
			)
			_, err := svc.Rank(ctx, intermediate())

			Convey("Then the fetch should be cut off", func() {
				So(errors.Is(err, forecast.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}

func TestService_Chart(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()

		Convey("When reading the chart", func() {
			chart, err := svc.Chart(context.Background())

			Convey("Then it should hold a week of data", func() {
				So(err, ShouldBeNil)
				So(chart.Labels, ShouldHaveLength, 7)
				So(chart.Datasets, ShouldHaveLength, 1)
				So(chart.Datasets[0].Data, ShouldHaveLength, 7)
			})
		})
	})
}
