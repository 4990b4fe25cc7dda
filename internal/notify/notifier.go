// Package notify carries user-facing confirmation and failure signals out of
// the state core. Rendering is the embedding application's concern.
package notify

import (
	"context"
	"sync"

	"github.com/bookhavenapp/bookhaven-backend/pkg/enums"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
)

// Notification is one (title, message, severity) triple.
type Notification struct {
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Severity enums.Severity `json:"severity"`
}

// Notifier is the sink the state services emit into.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// Success builds a success notification.
func Success(title, message string) Notification {
	return Notification{Title: title, Message: message, Severity: enums.SeveritySuccess}
}

// Failure builds an error notification.
func Failure(title, message string) Notification {
	return Notification{Title: title, Message: message, Severity: enums.SeverityError}
}

// FromError builds an error notification using the public message registered
// for the error's code.
func FromError(title string, err error) Notification {
	meta := pkgerrors.MetadataFor(pkgerrors.CodeOf(err))
	return Failure(title, meta.PublicMessage)
}

// LogNotifier writes notifications through the structured logger. It is the
// default sink for headless deployments.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier wraps the provided logger.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

// Notify logs the notification at a level matching its severity.
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"notification": notification.Title,
		"severity":     notification.Severity.String(),
	})
	if notification.Severity == enums.SeverityError {
		n.logg.Warn(ctx, notification.Message)
		return
	}
	n.logg.Info(ctx, notification.Message)
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify appends the notification.
func (r *Recorder) Notify(_ context.Context, notification Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification)
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
