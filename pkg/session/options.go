package session

import (
	"time"

	"github.com/minhyannv/persona-chat/pkg/gateway"
	"github.com/minhyannv/persona-chat/pkg/logbook"
	loggerpkg "github.com/minhyannv/persona-chat/pkg/logger"
)

// Option configures optional Engine dependencies.
type Option func(*engineDeps)

type engineDeps struct {
	logger    loggerpkg.Logger
	recorder  Recorder
	mock      gateway.Gateway
	now       func() time.Time
	sessionID string
}

// WithLogger injects the diagnostic logger.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *engineDeps) {
		d.logger = l
	}
}

// WithRecorder sets where completed turns are persisted.
func WithRecorder(r Recorder) Option {
	return func(d *engineDeps) {
		d.recorder = r
	}
}

// WithMockGateway replaces the gateway used while mock mode is on.
func WithMockGateway(g gateway.Gateway) Option {
	return func(d *engineDeps) {
		d.mock = g
	}
}

// WithClock overrides time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *engineDeps) {
		d.now = now
	}
}

// WithSessionID sets the id attached to log entries and diagnostics.
func WithSessionID(id string) Option {
	return func(d *engineDeps) {
		d.sessionID = id
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(logbook.Entry) {}
