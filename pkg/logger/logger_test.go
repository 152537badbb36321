package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/blitzboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()
		log := logger.Get()

		Convey("When logging at info with fields", func() {
			log.Info(ctx, "recompute finished", logger.Int("months", 3), logger.String("run", "abc"))

			Convey("Then the record carries message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "recompute finished")
				So(out, ShouldContainSubstring, "months=3")
				So(out, ShouldContainSubstring, "run=abc")
			})
		})

		Convey("When logging below the active level", func() {
			log.Debug(ctx, "noisy detail")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldBeEmpty)
			})
		})

		Convey("When lowering the level to debug", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			log.Debug(ctx, "noisy detail")

			Convey("Then debug records pass through", func() {
				So(buf.String(), ShouldContainSubstring, "noisy detail")
			})
		})

		Convey("When using a named logger", func() {
			logger.Named("app").Error(ctx, "boom", logger.Error(errors.New("kaput")))

			Convey("Then fields nest under the component group", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "boom")
				So(out, ShouldContainSubstring, "app.error=kaput")
			})
		})
	})

	Convey("Given level name parsing", t, func() {
		So(logger.SetLevelString("warn"), ShouldBeNil)
		So(logger.SetLevelString("warning"), ShouldBeNil)
		So(logger.SetLevelString("ERROR"), ShouldBeNil)
		So(logger.SetLevelString(""), ShouldBeNil)
		So(logger.SetLevelString("loud"), ShouldNotBeNil)
	})
}
