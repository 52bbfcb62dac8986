package trace

import (
	"io"
	"sync"
)

// StreamTracer writes every event as it is emitted. It reuses one line
// buffer under its lock.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	buf    []byte
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stamp(ev)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatNDJSON {
		t.buf = appendJSON(t.buf[:0], ev)
	} else {
		t.buf = appendText(t.buf[:0], ev)
	}
	// best effort: a broken trace sink must not fail the run
	_, _ = t.w.Write(t.buf) //nolint:errcheck
}

// Flush forwards to the writer when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
