//go:build darwin || linux || windows

// Command triangle draws one flat triangle over a gray background.
//
// It runs on the desktop as is and can be packaged for Android or iOS with
// the gomobile tool.
//
//	$ go install github.com/bmatsuo/gl-triangle/triangle && triangle
//	$ gomobile build github.com/bmatsuo/gl-triangle/triangle
//
// A frame is drawn once the surface size is known and again whenever it
// changes. The application never runs a render loop of its own.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/bmatsuo/gl-triangle/tri"

	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"
)

var painter *tri.Painter

func main() {
	if os.Getenv("TRIANGLE_DEBUG") != "" {
		tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	app.Main(func(a app.App) {
		var glctx gl.Context
		var sz size.Event
		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					glctx, _ = e.DrawContext.(gl.Context)
					onStart(glctx, sz)
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					onStop()
					glctx = nil
				}
			case size.Event:
				sz = e
				// One frame per surface change. A paint requested before
				// the size was known drew nothing.
				if painter.Resize(sz.WidthPx, sz.HeightPx) {
					a.Send(paint.Event{})
				}
			case paint.Event:
				if glctx == nil {
					continue
				}
				if onPaint() {
					a.Publish()
				}
			}
		}
	})
}

func onStart(glctx gl.Context, sz size.Event) {
	var err error
	painter, err = tri.NewPainter(glctx, tri.DefaultGeometry(), tri.DefaultOptions())
	if err != nil {
		log.Printf("error creating triangle scene: %v", err)
		painter = nil
		return
	}
	painter.Resize(sz.WidthPx, sz.HeightPx)
}

func onStop() {
	painter.Release()
	painter = nil
}

func onPaint() bool {
	drawn, err := painter.Paint()
	if err != nil {
		log.Printf("error drawing triangle: %v", err)
	}
	return drawn
}
