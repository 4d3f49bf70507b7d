package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	model "github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventRoundTrip(t *testing.T) {
	convey.Convey("Given one event of every kind", t, func() {
		events := []model.Event{
			{Timestamp: 0.0, Payload: model.MouseMove{X: 100, Y: 200}},
			{Timestamp: 0.25, Payload: model.MouseDown{Button: model.ButtonLeft}},
			{Timestamp: 0.3, Payload: model.MouseUp{Button: model.ButtonRight}},
			{Timestamp: 0.5, Payload: model.MouseScroll{DX: 0, DY: -3}},
			{Timestamp: 0.75, Payload: model.KeyDown{Key: "a"}},
			{Timestamp: 0.75, Payload: model.KeyUp{Key: "a"}},
		}

		convey.Convey("When each is encoded and decoded", func() {
			for _, original := range events {
				raw, err := json.Marshal(original)
				convey.So(err, convey.ShouldBeNil)

				var decoded model.Event
				err = json.Unmarshal(raw, &decoded)
				convey.So(err, convey.ShouldBeNil)

				convey.Convey("Then "+string(original.Payload.Kind())+" round-trips exactly", func() {
					convey.So(decoded, convey.ShouldResemble, original)
				})
			}
		})
	})
}

func TestEventEncoding(t *testing.T) {
	convey.Convey("Given a mouse move event", t, func() {
		e := model.Event{Timestamp: 1.5, Payload: model.MouseMove{X: 10, Y: 20}}

		convey.Convey("When encoded", func() {
			raw, err := json.Marshal(e)
			convey.So(err, convey.ShouldBeNil)

			var doc map[string]interface{}
			convey.So(json.Unmarshal(raw, &doc), convey.ShouldBeNil)

			convey.Convey("Then it carries exactly the fields of its kind", func() {
				convey.So(doc["type"], convey.ShouldEqual, "mouse_move")
				convey.So(doc["timestamp"], convey.ShouldEqual, 1.5)
				convey.So(doc["x"], convey.ShouldEqual, 10)
				convey.So(doc["y"], convey.ShouldEqual, 20)
				convey.So(doc, convey.ShouldNotContainKey, "button")
				convey.So(doc, convey.ShouldNotContainKey, "key")
				convey.So(doc, convey.ShouldNotContainKey, "dx")
			})
		})
	})

	convey.Convey("Given a scroll event with a zero delta", t, func() {
		e := model.Event{Timestamp: 0, Payload: model.MouseScroll{DX: 0, DY: 2}}

		convey.Convey("When encoded", func() {
			raw, err := json.Marshal(e)
			convey.So(err, convey.ShouldBeNil)

			var doc map[string]interface{}
			convey.So(json.Unmarshal(raw, &doc), convey.ShouldBeNil)

			convey.Convey("Then the zero delta is still present", func() {
				convey.So(doc["dx"], convey.ShouldEqual, 0)
				convey.So(doc["dy"], convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given an event without a payload", t, func() {
		e := model.Event{Timestamp: 1}

		convey.Convey("Then encoding fails with ErrMalformedEvent", func() {
			_, err := json.Marshal(e)
			convey.So(errors.Is(err, model.ErrMalformedEvent), convey.ShouldBeTrue)
		})
	})
}

func TestEventDecodeFailures(t *testing.T) {
	convey.Convey("Given malformed event documents", t, func() {
		cases := map[string]string{
			"unknown type":          `{"type":"mouse_teleport","timestamp":0.1,"x":1,"y":2}`,
			"missing timestamp":     `{"type":"mouse_move","x":1,"y":2}`,
			"negative timestamp":    `{"type":"mouse_move","timestamp":-0.5,"x":1,"y":2}`,
			"timestamp wrong type":  `{"type":"mouse_move","timestamp":"soon","x":1,"y":2}`,
			"move missing y":        `{"type":"mouse_move","timestamp":0.1,"x":1}`,
			"down missing button":   `{"type":"mouse_down","timestamp":0.1}`,
			"unknown button":        `{"type":"mouse_down","timestamp":0.1,"button":"fourth"}`,
			"scroll missing dy":     `{"type":"mouse_scroll","timestamp":0.1,"dx":1}`,
			"key down missing key":  `{"type":"key_down","timestamp":0.1}`,
			"key down empty key":    `{"type":"key_down","timestamp":0.1,"key":""}`,
			"key with mouse fields": `{"type":"key_up","timestamp":0.1,"key":"a","x":3}`,
			"move with key field":   `{"type":"mouse_move","timestamp":0.1,"x":1,"y":2,"key":"a"}`,
		}

		for name, doc := range cases {
			convey.Convey("Then decoding fails for "+name, func() {
				var e model.Event
				err := json.Unmarshal([]byte(doc), &e)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, model.ErrMalformedEvent), convey.ShouldBeTrue)
			})
		}
	})
}
