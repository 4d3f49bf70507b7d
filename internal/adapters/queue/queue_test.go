package queue_test

import (
	"context"
	"testing"

	queue "github.com/iam74k4/eventplayback/internal/adapters/queue"
	model "github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	move := model.Event{Timestamp: 0.1, Payload: model.MouseMove{X: 1, Y: 2}}
	down := model.Event{Timestamp: 0.2, Payload: model.KeyDown{Key: "a"}}
	up := model.Event{Timestamp: 0.3, Payload: model.KeyUp{Key: "a"}}
	scroll := model.Event{Timestamp: 0.4, Payload: model.MouseScroll{DX: 0, DY: 1}}

	convey.Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		convey.Convey("When notifications are enqueued", func() {
			ok1 := q.Enqueue(ctx, move)
			ok2 := q.Enqueue(ctx, down)

			convey.Convey("Then they are accepted up to capacity", func() {
				convey.So(ok1, convey.ShouldBeTrue)
				convey.So(ok2, convey.ShouldBeTrue)
				convey.So(q.Len(), convey.ShouldEqual, 2)
			})

			convey.Convey("And a further enqueue is dropped, not blocked", func() {
				convey.So(q.Enqueue(ctx, up), convey.ShouldBeFalse)
				convey.So(q.Len(), convey.ShouldEqual, 2)
			})

			convey.Convey("And dequeue yields them in order", func() {
				first := <-q.Dequeue()
				second := <-q.Dequeue()
				convey.So(first, convey.ShouldResemble, move)
				convey.So(second, convey.ShouldResemble, down)
			})
		})

		convey.Convey("When the queue is closed with items buffered", func() {
			q.Enqueue(ctx, scroll)
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then enqueue is refused", func() {
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(q.Enqueue(ctx, down), convey.ShouldBeFalse)
			})

			convey.Convey("And buffered items drain before the channel closes", func() {
				n, ok := <-q.Dequeue()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(n, convey.ShouldResemble, scroll)

				_, ok = <-q.Dequeue()
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("And closing again is a no-op", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})
	})
}
