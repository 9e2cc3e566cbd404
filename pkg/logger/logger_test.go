package logger_test

import (
	"context"
	"testing"

	"github.com/okian/fieldday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGlobalLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given the initialized global logger", t, func() {
		log := logger.Get()
		So(log, ShouldNotBeNil)

		Convey("When logging at each level with fields", func() {
			// The contract here is that structured fields of any type are
			// accepted without panicking.
			log.Debug(ctx, "debug message", logger.String("key", "value"))
			log.Info(ctx, "info message", logger.Int("count", 3), logger.Bool("ok", true))
			log.Warn(ctx, "warn message", logger.Float64("ratio", 0.5))
			log.Error(ctx, "error message", logger.Any("payload", map[string]int{"a": 1}))
		})

		Convey("When deriving a named logger", func() {
			named := log.Named("worker")
			So(named, ShouldNotBeNil)
			named.Info(ctx, "scoped message", logger.Int64("n", 7))
		})

		Convey("When using the package-level Named helper", func() {
			So(logger.Named("service"), ShouldNotBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		Convey("When setting known levels", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("INFO"), ShouldBeNil)
			So(logger.SetLevelString("warn"), ShouldBeNil)
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString("error"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString(" info "), ShouldBeNil)
		})

		Convey("When setting an unknown level", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})

		// Restore the default so other tests stay quiet.
		So(logger.SetLevelString("info"), ShouldBeNil)
	})
}
