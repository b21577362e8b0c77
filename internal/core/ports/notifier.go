package ports

import "context"

// Notification levels.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is one transient user-facing message, the gateway's stand-in
// for the front end's toast channel.
type Notification struct {
	Recipient string
	Level     string
	Message   string
}

// Notifier accepts notifications fire-and-forget: Notify never blocks the
// caller on delivery and never reports delivery failure.
type Notifier interface {
	Notify(n Notification)
}

// NotificationSink performs the actual delivery of one notification.
type NotificationSink interface {
	Deliver(ctx context.Context, n Notification) error
}
