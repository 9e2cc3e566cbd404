package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/fieldday/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))

		Convey("When enqueuing a job", func() {
			ok := q.Enqueue(ctx, queue.Job{CompetitionID: "c1", Reason: "rules_changed"})

			Convey("Then it is queued and dequeuable", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)

				var job queue.Job
				select {
				case job = <-q.Dequeue(ctx):
				case <-time.After(time.Second):
				}
				So(job.CompetitionID, ShouldEqual, "c1")
				So(job.Reason, ShouldEqual, "rules_changed")
			})
		})

		Convey("When enqueuing multiple jobs", func() {
			q.Enqueue(ctx, queue.Job{CompetitionID: "c1"})
			q.Enqueue(ctx, queue.Job{CompetitionID: "c2"})

			Convey("Then they dequeue in order", func() {
				jobs := q.Dequeue(ctx)
				So((<-jobs).CompetitionID, ShouldEqual, "c1")
				So((<-jobs).CompetitionID, ShouldEqual, "c2")
			})
		})
	})
}

func TestBackpressure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue at capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		So(q.Enqueue(ctx, queue.Job{CompetitionID: "c1"}), ShouldBeTrue)

		Convey("When enqueuing one more", func() {
			ok := q.Enqueue(ctx, queue.Job{CompetitionID: "c2"})

			Convey("Then the enqueue is rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue()
		q.Enqueue(ctx, queue.Job{CompetitionID: "c1"})
		So(q.Close(), ShouldBeNil)

		Convey("When enqueuing after close", func() {
			So(q.Enqueue(ctx, queue.Job{CompetitionID: "c2"}), ShouldBeFalse)
		})

		Convey("When draining after close", func() {
			jobs := q.Dequeue(ctx)

			Convey("Then buffered jobs still arrive, then the channel closes", func() {
				job, open := <-jobs
				So(open, ShouldBeTrue)
				So(job.CompetitionID, ShouldEqual, "c1")

				_, open = <-jobs
				So(open, ShouldBeFalse)
			})
		})

		Convey("When closing twice", func() {
			So(q.Close(), ShouldBeNil)
		})
	})
}
