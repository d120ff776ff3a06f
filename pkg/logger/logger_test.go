package logger_test

import (
	"context"
	"testing"

	"github.com/jparry/draftmate/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	convey.Convey("Given an initialized logger", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		ctx := context.Background()

		convey.Convey("Then Get returns a usable logger", func() {
			log := logger.Get()
			convey.So(log, convey.ShouldNotBeNil)
			convey.So(func() {
				log.Debug(ctx, "debug message", logger.String("k", "v"))
				log.Info(ctx, "info message", logger.Int("n", 1))
				log.Warn(ctx, "warn message", logger.Float64("f", 1.5))
				log.Error(ctx, "error message", logger.Bool("b", true))
			}, convey.ShouldNotPanic)
		})

		convey.Convey("And Named returns a scoped logger", func() {
			named := logger.Named("ledger")
			convey.So(named, convey.ShouldNotBeNil)
			convey.So(func() {
				named.Info(ctx, "scoped message")
			}, convey.ShouldNotPanic)
		})

		convey.Convey("And level strings parse case-insensitively", func() {
			convey.So(logger.SetLevelString("DEBUG"), convey.ShouldBeNil)
			convey.So(logger.SetLevelString("warning"), convey.ShouldBeNil)
			convey.So(logger.SetLevelString(""), convey.ShouldBeNil)
			convey.So(logger.SetLevelString("loud"), convey.ShouldNotBeNil)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	convey.Convey("Given the field constructors", t, func() {
		convey.So(logger.String("k", "v").Key, convey.ShouldEqual, "k")
		convey.So(logger.Int("n", 3).Value, convey.ShouldEqual, 3)
		convey.So(logger.Any("x", []int{1}).Key, convey.ShouldEqual, "x")
		convey.So(logger.Error(nil).Key, convey.ShouldEqual, "error")
	})
}
