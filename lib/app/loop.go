package app

import "sync/atomic"

// EventSource is the part of a window the loop pumps.
type EventSource interface {
	ShouldClose() bool
	PollEvents()
	WaitEvents()
	Wake()
}

// Loop is a cooperative main loop with idle and display callbacks. While an
// idle func is installed it polls for events and calls it every iteration;
// without one it blocks until an event arrives. Redisplay requests are
// coalesced into at most one display call per iteration.
type Loop struct {
	events  EventSource
	idle    func()
	display func()

	redisplay bool
	shutdown  atomic.Bool
}

func NewLoop(events EventSource) *Loop {
	return &Loop{events: events}
}

// SetIdleFunc installs f as the idle callback. nil disables idling.
func (l *Loop) SetIdleFunc(f func()) {
	l.idle = f
}

func (l *Loop) IdleEnabled() bool {
	return l.idle != nil
}

func (l *Loop) SetDisplayFunc(f func()) {
	l.display = f
}

// PostRedisplay asks for one display call. Repeated requests before the
// next display are merged.
func (l *Loop) PostRedisplay() {
	l.redisplay = true
}

func (l *Loop) RedisplayPending() bool {
	return l.redisplay
}

// CancelRedisplay drops a pending redisplay request.
func (l *Loop) CancelRedisplay() {
	l.redisplay = false
}

// Step runs one iteration: pump events, idle, then display if requested.
func (l *Loop) Step() {
	if l.idle != nil {
		l.events.PollEvents()
	} else {
		l.events.WaitEvents()
	}
	if l.idle != nil {
		l.idle()
	}
	if l.redisplay && l.display != nil {
		l.redisplay = false
		l.display()
	}
}

// Run steps until the window wants to close or a shutdown is requested.
func (l *Loop) Run() {
	for !l.Done() {
		l.Step()
	}
}

func (l *Loop) Done() bool {
	return l.shutdown.Load() || l.events.ShouldClose()
}

// RequestShutdown makes Run return after the current iteration. Safe from
// any goroutine.
func (l *Loop) RequestShutdown() {
	l.shutdown.Store(true)
	l.events.Wake()
}
