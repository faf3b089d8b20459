package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/surfcast/internal/adapters/forecast"
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMockSource(t *testing.T) {
	Convey("Given a mock source pinned to a clock", t, func() {
		at := time.Date(2026, time.May, 3, 14, 0, 0, 0, time.UTC)
		src := forecast.NewMockSource(forecast.WithClock(func() time.Time { return at }))
		all := []model.Spot{
			{ID: "1", Region: model.RegionEastCoast},
			{ID: "2", Region: model.RegionSouthCoast},
			{ID: "okanda", Region: model.RegionEastCoast},
		}

		Convey("When fetching twice in the same hour", func() {
			first, err := src.FetchAll(context.Background(), all)
			So(err, ShouldBeNil)
			second, err := src.FetchAll(context.Background(), all)
			So(err, ShouldBeNil)

			Convey("Then the snapshots are identical", func() {
				So(second, ShouldResemble, first)
				So(src.Name(), ShouldEqual, "mock")
			})
		})

		Convey("When checking generated records", func() {
			for hour := 0; hour < 24; hour++ {
				at = time.Date(2026, time.May, 3, hour, 0, 0, 0, time.UTC)
				snap, err := src.FetchAll(context.Background(), all)
				So(err, ShouldBeNil)
				for _, sp := range all {
					rec := snap[sp.ID]
					So(rec.Validate(), ShouldBeNil)
					So(rec.WaveHeight, ShouldBeGreaterThanOrEqualTo, 0.5)
					So(rec.WindSpeed, ShouldBeBetweenOrEqual, 3, 15)
					So(rec.WavePeriod, ShouldBeBetweenOrEqual, 7, 14)
					So(scoring.IsOffshore(sp.Region, rec.WindDirection), ShouldBeTrue)
					So(rec.Tide.Next, ShouldEqual, "TBD")
				}
			}
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := src.FetchAll(ctx, all)

			Convey("Then the fetch fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestChartSource(t *testing.T) {
	Convey("Given the chart source", t, func() {
		c := forecast.NewChartSource()

		Convey("Then it returns seven labelled points", func() {
			chart, err := c.Chart(context.Background())
			So(err, ShouldBeNil)
			So(chart.Labels, ShouldHaveLength, 7)
			So(chart.Datasets, ShouldHaveLength, 1)
			So(chart.Datasets[0].Data, ShouldHaveLength, 7)
		})

		Convey("Then callers cannot mutate the series", func() {
			chart, _ := c.Chart(context.Background())
			chart.Datasets[0].Data[0] = 99
			again, _ := c.Chart(context.Background())
			So(again.Datasets[0].Data[0], ShouldNotEqual, 99)
		})
	})
}
