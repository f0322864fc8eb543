package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/domain/model"
)

func TestMemoryDirectory(t *testing.T) {
	convey.Convey("Given an in-memory volunteer directory", t, func() {
		ctx := context.Background()
		dir := repository.NewMemoryDirectory()

		convey.Convey("When a volunteer with duplicate labels is stored", func() {
			dir.Put(model.Volunteer{
				ID:           "v1",
				Skills:       []string{"first-aid", "first-aid", "logistics"},
				Availability: []string{"Monday", "Monday"},
			})
			v, err := dir.Volunteer(ctx, "v1")

			convey.Convey("Then labels are deduplicated preserving order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(v.Skills, convey.ShouldResemble, []string{"first-aid", "logistics"})
				convey.So(v.Availability, convey.ShouldResemble, []string{"Monday"})
			})
		})

		convey.Convey("When listing after several inserts", func() {
			dir.Put(model.Volunteer{ID: "b"})
			dir.Put(model.Volunteer{ID: "a"})
			dir.Put(model.Volunteer{ID: "b", Name: "updated"})
			vols, err := dir.Volunteers(ctx)

			convey.Convey("Then insertion order is stable and replace keeps the slot", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(vols, convey.ShouldHaveLength, 2)
				convey.So(vols[0].ID, convey.ShouldEqual, "b")
				convey.So(vols[0].Name, convey.ShouldEqual, "updated")
				convey.So(vols[1].ID, convey.ShouldEqual, "a")
			})
		})

		convey.Convey("When resolving an unknown id", func() {
			_, err := dir.Volunteer(ctx, "ghost")

			convey.Convey("Then the not-found sentinel is returned", func() {
				convey.So(errors.Is(err, repository.ErrVolunteerNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemoryCatalog(t *testing.T) {
	convey.Convey("Given an in-memory event catalog", t, func() {
		ctx := context.Background()
		cat := repository.NewMemoryCatalog()

		convey.Convey("When events are stored and listed", func() {
			cat.Put(model.Event{ID: "e2"})
			cat.Put(model.Event{ID: "e1"})
			events, err := cat.Events(ctx)

			convey.Convey("Then listing preserves insertion order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 2)
				convey.So(events[0].ID, convey.ShouldEqual, "e2")
				convey.So(events[1].ID, convey.ShouldEqual, "e1")
			})
		})

		convey.Convey("When resolving an unknown id", func() {
			_, err := cat.Event(ctx, "ghost")

			convey.Convey("Then the not-found sentinel is returned", func() {
				convey.So(errors.Is(err, repository.ErrEventNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemoryAssignments(t *testing.T) {
	convey.Convey("Given an in-memory assignment store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryAssignments()

		convey.Convey("When creating a fresh assignment", func() {
			asg, err := store.Create(ctx, "v1", "e1")

			convey.Convey("Then the record carries ids and a timestamp", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(asg.ID, convey.ShouldNotBeEmpty)
				convey.So(asg.VolunteerID, convey.ShouldEqual, "v1")
				convey.So(asg.EventID, convey.ShouldEqual, "e1")
				convey.So(asg.CreatedAt.IsZero(), convey.ShouldBeFalse)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("And creating the same pair again is rejected", func() {
				_, dupErr := store.Create(ctx, "v1", "e1")
				convey.So(errors.Is(dupErr, repository.ErrAssignmentExists), convey.ShouldBeTrue)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("And Find resolves the stored record", func() {
				found, findErr := store.Find(ctx, "v1", "e1")
				convey.So(findErr, convey.ShouldBeNil)
				convey.So(found.ID, convey.ShouldEqual, asg.ID)
			})
		})

		convey.Convey("When the same volunteer joins a second event", func() {
			_, err1 := store.Create(ctx, "v1", "e1")
			_, err2 := store.Create(ctx, "v1", "e2")

			convey.Convey("Then both assignments stand", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(store.Count(ctx), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When finding a pair that was never assigned", func() {
			_, err := store.Find(ctx, "v1", "e9")

			convey.Convey("Then the not-found sentinel is returned", func() {
				convey.So(errors.Is(err, repository.ErrAssignmentNotFound), convey.ShouldBeTrue)
			})
		})
	})
}
