package model_test

import (
	"encoding/json"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

func TestUrgency(t *testing.T) {
	convey.Convey("Given urgency labels", t, func() {
		convey.Convey("When parsing known labels in any casing", func() {
			convey.So(model.ParseUrgency("medium"), convey.ShouldEqual, model.UrgencyMedium)
			convey.So(model.ParseUrgency(" HIGH "), convey.ShouldEqual, model.UrgencyHigh)
			convey.So(model.ParseUrgency("Critical"), convey.ShouldEqual, model.UrgencyCritical)
		})

		convey.Convey("When parsing unknown or empty labels", func() {
			convey.So(model.ParseUrgency(""), convey.ShouldEqual, model.UrgencyLow)
			convey.So(model.ParseUrgency("severe"), convey.ShouldEqual, model.UrgencyLow)
		})

		convey.Convey("When round-tripping through JSON", func() {
			b, err := json.Marshal(model.Event{ID: "e1", Urgency: model.UrgencyCritical})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldContainSubstring, `"urgency":"critical"`)

			var ev model.Event
			convey.So(json.Unmarshal(b, &ev), convey.ShouldBeNil)
			convey.So(ev.Urgency, convey.ShouldEqual, model.UrgencyCritical)
		})
	})
}

func TestNoticeChannel(t *testing.T) {
	convey.Convey("Given a volunteer id", t, func() {
		convey.Convey("Then the routing key is prefixed", func() {
			convey.So(model.NoticeChannel("v1"), convey.ShouldEqual, "notice:v1")
		})
	})
}
