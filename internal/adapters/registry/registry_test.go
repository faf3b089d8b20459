package registry_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/surfcast/internal/adapters/registry"
	"github.com/okian/surfcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStaticRegistry(t *testing.T) {
	Convey("Given the default static registry", t, func() {
		r, err := registry.NewStaticRegistry(registry.DefaultSpots())
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("Then it lists the five built-in spots in order", func() {
			spots, err := r.List(ctx)
			So(err, ShouldBeNil)
			So(spots, ShouldHaveLength, 5)
			So(spots[0].Name, ShouldEqual, "Arugam Bay")
			So(spots[4].Region, ShouldEqual, model.RegionEastCoast)
			So(r.Count(ctx), ShouldEqual, 5)
		})

		Convey("Then spots can be fetched by id", func() {
			sp, err := r.Get(ctx, "4")
			So(err, ShouldBeNil)
			So(sp.Name, ShouldEqual, "Hiriketiya")

			_, err = r.Get(ctx, "42")
			So(errors.Is(err, registry.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then callers cannot mutate the registry through List", func() {
			spots, _ := r.List(ctx)
			spots[0].Name = "changed"
			again, _ := r.List(ctx)
			So(again[0].Name, ShouldEqual, "Arugam Bay")
		})
	})

	Convey("Given invalid spots", t, func() {
		_, err := registry.NewStaticRegistry([]model.Spot{{ID: "1", Region: "Moon"}})
		So(errors.Is(err, registry.ErrInvalidSpot), ShouldBeTrue)
		So(errors.Is(err, model.ErrUnknownRegion), ShouldBeTrue)

		_, err = registry.NewStaticRegistry([]model.Spot{
			{ID: "1", Region: model.RegionEastCoast},
			{ID: "1", Region: model.RegionSouthCoast},
		})
		So(errors.Is(err, registry.ErrInvalidSpot), ShouldBeTrue)

		_, err = registry.NewStaticRegistry([]model.Spot{{ID: "1", Region: model.RegionEastCoast, Coordinates: model.Coordinates{Lat: 91}}})
		So(errors.Is(err, registry.ErrInvalidSpot), ShouldBeTrue)

		So(func() { registry.MustNewStaticRegistry([]model.Spot{{ID: "1", Region: "Moon"}}) }, ShouldPanic)
		So(registry.MustNewStaticRegistry(registry.DefaultSpots()).Count(context.Background()), ShouldEqual, 5)
	})
}

func TestSQLiteRegistry(t *testing.T) {
	Convey("Given a fresh SQLite registry", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "spots.db")
		r, err := registry.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		defer r.Close()

		Convey("Then it is seeded with the default spots", func() {
			spots, err := r.List(ctx)
			So(err, ShouldBeNil)
			So(spots, ShouldResemble, registry.DefaultSpots())
			So(r.Count(ctx), ShouldEqual, 5)
		})

		Convey("When a spot is upserted", func() {
			So(r.Upsert(ctx, model.Spot{ID: "6", Name: "Pottuvil Point", Region: model.RegionEastCoast, Coordinates: model.Coordinates{Lat: 6.87, Lng: 81.84}}), ShouldBeNil)
			So(r.Upsert(ctx, model.Spot{ID: "2", Name: "Weligama Bay", Region: model.RegionSouthCoast, Coordinates: model.Coordinates{Lat: 5.972, Lng: 80.426}}), ShouldBeNil)

			Convey("Then new spots are appended and existing ones updated in place", func() {
				spots, err := r.List(ctx)
				So(err, ShouldBeNil)
				So(spots, ShouldHaveLength, 6)
				So(spots[1].Name, ShouldEqual, "Weligama Bay")
				So(spots[5].ID, ShouldEqual, "6")
			})

			Convey("Then reopening keeps the changes and does not reseed over them", func() {
				So(r.Close(), ShouldBeNil)
				reopened, err := registry.OpenSQLite(ctx, path)
				So(err, ShouldBeNil)
				defer reopened.Close()
				sp, err := reopened.Get(ctx, "2")
				So(err, ShouldBeNil)
				So(sp.Name, ShouldEqual, "Weligama Bay")
				So(reopened.Count(ctx), ShouldEqual, 6)
			})
		})

		Convey("When an invalid spot is upserted", func() {
			err := r.Upsert(ctx, model.Spot{ID: "", Region: model.RegionEastCoast})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, registry.ErrInvalidSpot), ShouldBeTrue)
			})
		})

		Convey("When an unknown id is requested", func() {
			_, err := r.Get(ctx, "nope")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, registry.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given an in-memory registry with a custom seed", t, func() {
		ctx := context.Background()
		r, err := registry.OpenSQLite(ctx, ":memory:", registry.WithSeed([]model.Spot{
			{ID: "a", Name: "A", Region: model.RegionSouthCoast},
		}))
		So(err, ShouldBeNil)
		defer r.Close()

		Convey("Then only the seed is present", func() {
			spots, err := r.List(ctx)
			So(err, ShouldBeNil)
			So(spots, ShouldHaveLength, 1)
			So(spots[0].Region, ShouldEqual, model.RegionSouthCoast)
		})
	})
}
