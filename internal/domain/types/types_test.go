package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/surfcast/internal/domain/model"
	types "github.com/okian/surfcast/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRanking(t *testing.T) {
	Convey("Given a ranking", t, func() {
		r := types.Ranking{
			RequestID: "req-1",
			Month:     6,
			Spots:     []model.RankedSpot{{Spot: model.Spot{ID: "2"}, Suitability: 55}},
		}

		Convey("When encoded as JSON", func() {
			out, err := json.Marshal(r)
			So(err, ShouldBeNil)

			Convey("Then it uses snake case envelope keys", func() {
				So(string(out), ShouldContainSubstring, `"request_id":"req-1"`)
				So(string(out), ShouldContainSubstring, `"month":6`)
				So(string(out), ShouldContainSubstring, `"suitability":55`)
			})
		})

		Convey("When the ranking is empty", func() {
			out, err := json.Marshal(types.Ranking{Spots: []model.RankedSpot{}})
			So(err, ShouldBeNil)

			Convey("Then spots encode as an empty array", func() {
				So(string(out), ShouldContainSubstring, `"spots":[]`)
			})
		})
	})
}

func TestChart(t *testing.T) {
	Convey("Given a chart without dataset labels", t, func() {
		c := types.Chart{Labels: []string{"Mon"}, Datasets: []types.Dataset{{Data: []float64{1.5}}}}

		Convey("Then the label is omitted", func() {
			out, err := json.Marshal(c)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"labels":["Mon"],"datasets":[{"data":[1.5]}]}`)
		})
	})
}
