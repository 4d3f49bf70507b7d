package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/iam74k4/eventplayback/internal/adapters/repository"
	model "github.com/iam74k4/eventplayback/internal/domain/model"
	logging "github.com/iam74k4/eventplayback/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func sampleMacro() model.Macro {
	return model.Macro{
		Name:      "sample",
		CreatedAt: time.Date(2026, 8, 26, 12, 0, 0, 123456789, time.UTC),
		Events: []model.Event{
			{Timestamp: 0.0, Payload: model.MouseMove{X: 100, Y: 200}},
			{Timestamp: 0.5, Payload: model.KeyDown{Key: "a"}},
			{Timestamp: 0.6, Payload: model.KeyUp{Key: "a"}},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a file store and a macro", t, func() {
		store := repository.NewFileStore()
		dir := t.TempDir()
		path := filepath.Join(dir, "sample.json")
		original := sampleMacro()

		convey.Convey("When the macro is saved and loaded", func() {
			convey.So(store.Save(ctx, original, path), convey.ShouldBeNil)

			loaded, err := store.Load(ctx, path)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the loaded macro equals the original", func() {
				convey.So(loaded.Name, convey.ShouldEqual, original.Name)
				convey.So(loaded.CreatedAt.Equal(original.CreatedAt), convey.ShouldBeTrue)
				convey.So(loaded.Events, convey.ShouldResemble, original.Events)
			})

			convey.Convey("And no temporary file is left behind", func() {
				_, err := os.Stat(path + ".tmp")
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When saving over an existing file", func() {
			convey.So(store.Save(ctx, original, path), convey.ShouldBeNil)

			replacement := original
			replacement.Name = "replacement"
			convey.So(store.Save(ctx, replacement, path), convey.ShouldBeNil)

			loaded, err := store.Load(ctx, path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Name, convey.ShouldEqual, "replacement")
		})

		convey.Convey("When saving a macro that violates invariants", func() {
			invalid := original
			invalid.Name = ""

			err := store.Save(ctx, invalid, path)
			convey.So(errors.Is(err, model.ErrMalformedMacro), convey.ShouldBeTrue)
		})
	})
}

func TestFileStoreLoadFailures(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a file store", t, func() {
		store := repository.NewFileStore()
		dir := t.TempDir()

		convey.Convey("When loading a missing file", func() {
			_, err := store.Load(ctx, filepath.Join(dir, "missing.json"))
			convey.So(errors.Is(err, repository.ErrRead), convey.ShouldBeTrue)
		})

		convey.Convey("When loading a file that is not a macro document", func() {
			path := filepath.Join(dir, "garbage.json")
			convey.So(os.WriteFile(path, []byte(`{"events": 7}`), 0o644), convey.ShouldBeNil)

			_, err := store.Load(ctx, path)
			convey.So(errors.Is(err, model.ErrMalformedMacro), convey.ShouldBeTrue)
		})

		convey.Convey("When one event has an unknown type", func() {
			path := filepath.Join(dir, "unknown.json")
			doc := `{"name":"m","created_at":"2026-01-01T00:00:00Z","events":[
				{"type":"key_down","timestamp":0.1,"key":"a"},
				{"type":"mouse_warp","timestamp":0.2,"x":1,"y":2}
			]}`
			convey.So(os.WriteFile(path, []byte(doc), 0o644), convey.ShouldBeNil)

			m, err := store.Load(ctx, path)

			convey.Convey("Then the whole load fails with no macro returned", func() {
				convey.So(errors.Is(err, model.ErrMalformedEvent), convey.ShouldBeTrue)
				convey.So(m.Events, convey.ShouldBeNil)
				convey.So(m.Name, convey.ShouldBeEmpty)
			})
		})
	})
}
