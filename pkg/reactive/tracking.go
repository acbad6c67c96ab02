package reactive

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// activeEffect receives subscriptions for tracked reads.
	activeEffect *Effect

	// pauseDepth > 0 suspends tracking (see Untracked).
	pauseDepth int
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the "goroutine <id> " header of the runtime stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// loadTrackingContext returns the context of the current goroutine, or nil
// when the goroutine never entered an effect.
func loadTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// getTrackingContext returns the context of the current goroutine, creating
// it on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// releaseIfIdle drops the goroutine's context once nothing is running in it,
// so short-lived goroutines don't leave entries behind.
func releaseIfIdle(ctx *trackingContext) {
	if ctx.activeEffect == nil && ctx.pauseDepth == 0 {
		trackingContexts.Delete(getGoroutineID())
	}
}

// activeEffect returns the effect that should receive subscriptions for a
// read happening now, or nil if reads are not tracked.
func activeEffect() *Effect {
	ctx := loadTrackingContext()
	if ctx == nil || ctx.pauseDepth > 0 {
		return nil
	}
	return ctx.activeEffect
}

// trackingFrame is the state saved when an effect starts running.
type trackingFrame struct {
	ctx        *trackingContext
	prevEffect *Effect
	prevPause  int
}

// enterEffect makes e the active effect and re-enables tracking.
// The returned frame must be passed to exitEffect.
func enterEffect(e *Effect) trackingFrame {
	ctx := getTrackingContext()
	f := trackingFrame{ctx: ctx, prevEffect: ctx.activeEffect, prevPause: ctx.pauseDepth}
	ctx.activeEffect = e
	ctx.pauseDepth = 0
	return f
}

// exitEffect restores the state saved by enterEffect.
func exitEffect(f trackingFrame) {
	f.ctx.activeEffect = f.prevEffect
	f.ctx.pauseDepth = f.prevPause
	releaseIfIdle(f.ctx)
}

// Untracked runs fn without subscribing the active effect to anything fn
// reads.
//
//	reactive.Untracked(func() {
//	    // reading here won't subscribe the surrounding effect
//	    log.Println(state.Get("count"))
//	})
func Untracked(fn func()) {
	ctx := getTrackingContext()
	ctx.pauseDepth++
	defer func() {
		ctx.pauseDepth--
		releaseIfIdle(ctx)
	}()
	fn()
}

// IsTracking reports whether a read made now would be tracked.
func IsTracking() bool {
	return activeEffect() != nil
}

var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for reactivity diagnostics.
// A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}

func logger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return slog.Default()
}
