package app_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/volunteerhub/beacon/internal/adapters/noticestore"
	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/app"
	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/pkg/logger"
)

// failingNoticeStore rejects every create while delegating reads to a real
// in-memory store.
type failingNoticeStore struct {
	*noticestore.MemoryStore
	createErr error
}

func (s *failingNoticeStore) Create(context.Context, string, noticestore.Draft) (model.Notice, error) {
	return model.Notice{}, s.createErr
}

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newStartedService(t *testing.T, opts ...app.Option) (*app.Service, *repository.MemoryAssignments) {
	t.Helper()
	ctx := context.Background()

	dir := repository.NewMemoryDirectory()
	dir.Put(model.Volunteer{
		ID:           "v1",
		Name:         "Ada",
		Skills:       []string{"cooking"},
		Location:     "Downtown",
		Availability: []string{"Tuesday"},
	})

	cat := repository.NewMemoryCatalog()
	cat.Put(model.Event{
		ID:             "e1",
		Name:           "Food Drive",
		RequiredSkills: []string{"cooking"},
		Location:       "Downtown",
		Date:           time.Now().AddDate(0, 0, 3),
		Urgency:        model.UrgencyHigh,
	})
	cat.Put(model.Event{
		ID:   "e2",
		Name: "Park Cleanup",
		Date: time.Now().AddDate(0, 0, 5),
	})

	asg := repository.NewMemoryAssignments()
	svc := app.New(append([]app.Option{
		app.WithDirectory(dir),
		app.WithCatalog(cat),
		app.WithAssignments(asg),
		app.WithStreamBuffer(8),
	}, opts...)...)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc, asg
}

func TestService_Assign(t *testing.T) {
	convey.Convey("Given a started service with one volunteer and two events", t, func() {
		ctx := context.Background()
		svc, store := newStartedService(t)

		convey.Convey("When assigning the volunteer to an event", func() {
			sub, ch := svc.SubscribeNotices("v1")
			defer svc.Unsubscribe(sub)

			asg, notice, err := svc.Assign(ctx, "v1", "e1")

			convey.Convey("Then the assignment and its notice are created", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(asg.VolunteerID, convey.ShouldEqual, "v1")
				convey.So(asg.EventID, convey.ShouldEqual, "e1")
				convey.So(notice.Title, convey.ShouldEqual, "Assigned: Food Drive")
				convey.So(notice.Type, convey.ShouldEqual, model.NoticeSuccess)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("Then the notice lands in the backlog", func() {
				convey.So(err, convey.ShouldBeNil)
				backlog, lerr := svc.Notices(ctx, "v1")
				convey.So(lerr, convey.ShouldBeNil)
				convey.So(backlog, convey.ShouldHaveLength, 1)
				convey.So(backlog[0].ID, convey.ShouldEqual, notice.ID)
			})

			convey.Convey("Then exactly one notice reaches the live subscriber", func() {
				convey.So(err, convey.ShouldBeNil)
				select {
				case got := <-ch:
					convey.So(got.ID, convey.ShouldEqual, notice.ID)
				case <-time.After(time.Second):
					t.Fatal("no live notice delivered")
				}
				select {
				case extra := <-ch:
					t.Fatalf("unexpected second delivery: %v", extra)
				default:
				}
			})
		})

		convey.Convey("When assigning the same pair twice", func() {
			_, _, first := svc.Assign(ctx, "v1", "e1")
			_, _, second := svc.Assign(ctx, "v1", "e1")

			convey.Convey("Then the duplicate is rejected and nothing else is written", func() {
				convey.So(first, convey.ShouldBeNil)
				convey.So(errors.Is(second, repository.ErrAssignmentExists), convey.ShouldBeTrue)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
				backlog, _ := svc.Notices(ctx, "v1")
				convey.So(backlog, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the volunteer does not exist", func() {
			_, _, err := svc.Assign(ctx, "ghost", "e1")

			convey.Convey("Then the lookup fails before anything is persisted", func() {
				convey.So(errors.Is(err, repository.ErrVolunteerNotFound), convey.ShouldBeTrue)
				convey.So(store.Count(ctx), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the event does not exist", func() {
			_, _, err := svc.Assign(ctx, "v1", "ghost")

			convey.Convey("Then the lookup fails before anything is persisted", func() {
				convey.So(errors.Is(err, repository.ErrEventNotFound), convey.ShouldBeTrue)
				convey.So(store.Count(ctx), convey.ShouldEqual, 0)
				backlog, _ := svc.Notices(ctx, "v1")
				convey.So(backlog, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When an id is missing", func() {
			_, _, err1 := svc.Assign(ctx, "", "e1")
			_, _, err2 := svc.Assign(ctx, "v1", "")

			convey.Convey("Then the missing-field sentinel surfaces", func() {
				convey.So(errors.Is(err1, app.ErrMissingField), convey.ShouldBeTrue)
				convey.So(errors.Is(err2, app.ErrMissingField), convey.ShouldBeTrue)
			})
		})
	})
}

func TestService_AssignNoticeStoreFailure(t *testing.T) {
	convey.Convey("Given a service whose notice store rejects writes", t, func() {
		ctx := context.Background()
		storeErr := errors.New("disk full")
		svc, store := newStartedService(t, app.WithNoticeStore(&failingNoticeStore{
			MemoryStore: noticestore.NewMemoryStore(),
			createErr:   storeErr,
		}))

		convey.Convey("When assigning the volunteer to an event", func() {
			sub, ch := svc.SubscribeNotices("v1")
			defer svc.Unsubscribe(sub)

			asg, notice, err := svc.Assign(ctx, "v1", "e1")

			convey.Convey("Then the store failure surfaces and the assignment stands", func() {
				convey.So(errors.Is(err, storeErr), convey.ShouldBeTrue)
				convey.So(asg.VolunteerID, convey.ShouldEqual, "v1")
				convey.So(notice.ID, convey.ShouldBeEmpty)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("Then nothing reaches the live subscriber", func() {
				convey.So(err, convey.ShouldNotBeNil)
				select {
				case got := <-ch:
					t.Fatalf("unexpected delivery: %v", got)
				default:
				}
			})
		})
	})
}

func TestService_Notify(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, _ := newStartedService(t)

		convey.Convey("When sending a notice without a type", func() {
			notice, err := svc.Notify(ctx, "v1", "Reminder", "bring gloves", "")

			convey.Convey("Then the type defaults to info and the notice persists", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(notice.Type, convey.ShouldEqual, model.NoticeInfo)
				backlog, _ := svc.Notices(ctx, "v1")
				convey.So(backlog, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When sending a notice with an unrecognized type", func() {
			notice, err := svc.Notify(ctx, "v1", "Reminder", "", "shouting")

			convey.Convey("Then the type normalizes to info", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(notice.Type, convey.ShouldEqual, model.NoticeInfo)
			})
		})

		convey.Convey("When the title is missing", func() {
			_, err := svc.Notify(ctx, "v1", "", "body", "info")

			convey.Convey("Then the missing-field sentinel surfaces", func() {
				convey.So(errors.Is(err, app.ErrMissingField), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When clearing the backlog", func() {
			_, err := svc.Notify(ctx, "v1", "one", "", "")
			convey.So(err, convey.ShouldBeNil)
			_, err = svc.Notify(ctx, "v1", "two", "", "")
			convey.So(err, convey.ShouldBeNil)

			n, cerr := svc.ClearNotices(ctx, "v1")

			convey.Convey("Then the removed count is reported", func() {
				convey.So(cerr, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 2)
				backlog, _ := svc.Notices(ctx, "v1")
				convey.So(backlog, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestService_RankTopNCap(t *testing.T) {
	convey.Convey("Given a service with a configured topN cap of 1", t, func() {
		ctx := context.Background()
		svc, _ := newStartedService(t, app.WithMaxTopN(1))

		convey.Convey("When ranking without an explicit topN", func() {
			matches, err := svc.Rank(ctx, "v1", 0)

			convey.Convey("Then the full filtered list comes back uncapped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(matches, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When ranking with a topN above the cap", func() {
			matches, err := svc.Rank(ctx, "v1", 5)

			convey.Convey("Then the cap bounds the result", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(matches, convey.ShouldHaveLength, 1)
				convey.So(matches[0].Event.ID, convey.ShouldEqual, "e1")
			})
		})
	})
}

func TestService_RankAndStats(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, _ := newStartedService(t)

		convey.Convey("When ranking the volunteer", func() {
			matches, err := svc.Rank(ctx, "v1", 0)

			convey.Convey("Then the full-overlap event ranks first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(matches), convey.ShouldBeGreaterThanOrEqualTo, 1)
				convey.So(matches[0].Event.ID, convey.ShouldEqual, "e1")
			})
		})

		convey.Convey("When ranking an unknown volunteer", func() {
			_, err := svc.Rank(ctx, "ghost", 0)

			convey.Convey("Then the not-found sentinel surfaces", func() {
				convey.So(errors.Is(err, repository.ErrVolunteerNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When unsubscribing a live subscription", func() {
			sub, ch := svc.SubscribeNotices("v1")
			svc.Unsubscribe(sub)
			_, err := svc.Notify(ctx, "v1", "after", "", "")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then no further notices are delivered", func() {
				select {
				case n := <-ch:
					t.Fatalf("delivery after unsubscribe: %v", n)
				default:
				}
				convey.So(svc.SubscriberCount(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When reading the stats snapshot", func() {
			stats := svc.GetStats(ctx)

			convey.Convey("Then counters reflect the seeded state", func() {
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["volunteers"], convey.ShouldEqual, 1)
				convey.So(stats["events"], convey.ShouldEqual, 2)
				convey.So(stats["assignments"], convey.ShouldEqual, 0)
			})
		})
	})
}
