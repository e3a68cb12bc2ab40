// Package stacktrace captures the current call stack and renders it as
// rich-text lines with clickable source annotations.
package stacktrace

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Tracer captures a rendered stack trace. skip counts frames above the
// caller of Capture to omit; depth bounds how many frames are examined.
type Tracer interface {
	Capture(depth, skip int) string
}

// Frame is one resolved call-stack frame. Line is zero when the frame has
// no source information.
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
}

// Runtime captures traces from the Go runtime.
type Runtime struct{}

// Capture implements Tracer.
func (Runtime) Capture(depth, skip int) string {
	return Render(Frames(depth, skip+1), depth)
}

// None is the fallback for builds without frame metadata. It always
// renders an empty trace.
type None struct{}

func (None) Capture(int, int) string { return "" }

// Frames returns up to depth frames starting skip frames above the caller
// of Frames, nearest caller first.
func Frames(depth, skip int) []Frame {
	if depth <= 0 {
		return nil
	}
	if skip < 0 {
		skip = 0
	}

	// Each PC expands to at least one frame, inlined calls to more.
	pcs := make([]uintptr, depth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := make([]Frame, 0, depth)
	iter := runtime.CallersFrames(pcs[:n])
	for len(frames) < depth {
		f, more := iter.Next()
		frames = append(frames, Frame{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		})
		if !more {
			break
		}
	}
	return frames
}

// Render examines at most depth frames and writes one line per frame that
// has a source line. Frames without one still use up a slot.
func Render(frames []Frame, depth int) string {
	if depth > len(frames) {
		depth = len(frames)
	}
	var sb strings.Builder
	for _, f := range frames[:max(depth, 0)] {
		if f.Line <= 0 {
			continue
		}
		writeLine(&sb, f)
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, f Frame) {
	fmt.Fprintf(sb, "<b>%s</b> | %s <a cs=\"%s\" ln=\"%d\" cn=\"%d\"><b>[%d]</b></a>\n",
		shortFuncName(f.Function), filepath.Base(f.File), f.File, f.Line, f.Column, f.Line)
}

// shortFuncName strips the import path and package name:
// "github.com/x/pkg.(*T).Method" becomes "(*T).Method".
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
