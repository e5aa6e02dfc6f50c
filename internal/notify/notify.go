// Package notify carries user-facing notices (success and failure messages)
// from domain services to whoever presents them: an HTTP response, the CLI, a log.
package notify

import (
	"context"
	"sync"

	"cvstudio-backend/internal/shared/telemetry"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short message meant for the end user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Success builds a success notice.
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

// Failure builds an error notice.
func Failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// LogNotifier writes notices to the structured log and forwards them to the
// request's Collector when one is attached to ctx.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notice) {
	telemetry.Info("notice", map[string]any{"level": string(n.Level), "message": n.Message})
	if c := FromContext(ctx); c != nil {
		c.Notify(ctx, n)
	}
}

// Collector accumulates notices, typically for the lifetime of one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func (c *Collector) Notify(_ context.Context, n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of the collected notices.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// Last returns the most recent notice, if any.
func (c *Collector) Last() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.notices) == 0 {
		return Notice{}, false
	}
	return c.notices[len(c.notices)-1], true
}

type collectorKey struct{}

// WithCollector attaches a fresh Collector to ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// FromContext returns the Collector attached to ctx, or nil.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}
