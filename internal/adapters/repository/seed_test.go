package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/domain/model"
)

const seedFixture = `
volunteers:
  - id: v1
    name: Ada
    skills: [spanish, cooking]
    location: Downtown
    availability: [Tuesday, Saturday]
events:
  - id: e1
    name: Food Drive
    requiredSkills: [cooking]
    location: Downtown
    date: 2026-09-01T10:00:00Z
    urgency: high
  - id: e2
    name: Park Cleanup
    urgency: nonsense
`

func TestLoadSeed(t *testing.T) {
	convey.Convey("Given a YAML seed fixture on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "seed.yaml")
		convey.So(os.WriteFile(path, []byte(seedFixture), 0o600), convey.ShouldBeNil)

		dir := repository.NewMemoryDirectory()
		cat := repository.NewMemoryCatalog()

		convey.Convey("When the fixture is loaded", func() {
			err := repository.LoadSeed(path, dir, cat)

			convey.Convey("Then volunteers and events are populated", func() {
				convey.So(err, convey.ShouldBeNil)

				v, verr := dir.Volunteer(ctx, "v1")
				convey.So(verr, convey.ShouldBeNil)
				convey.So(v.Name, convey.ShouldEqual, "Ada")
				convey.So(v.Skills, convey.ShouldResemble, []string{"spanish", "cooking"})

				ev, eerr := cat.Event(ctx, "e1")
				convey.So(eerr, convey.ShouldBeNil)
				convey.So(ev.Urgency, convey.ShouldEqual, model.UrgencyHigh)
			})

			convey.Convey("Then an unknown urgency label falls back to low", func() {
				convey.So(err, convey.ShouldBeNil)
				ev, eerr := cat.Event(ctx, "e2")
				convey.So(eerr, convey.ShouldBeNil)
				convey.So(ev.Urgency, convey.ShouldEqual, model.UrgencyLow)
			})
		})

		convey.Convey("When the file does not exist", func() {
			err := repository.LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"), dir, cat)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
