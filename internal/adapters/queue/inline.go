package queue

import (
	"context"

	"eventmgt/internal/domain"
)

type inlineDispatcher struct {
	notifications domain.NotificationService
}

// NewInlineDispatcher returns a dispatcher that delivers notifications synchronously.
func NewInlineDispatcher(notifications domain.NotificationService) domain.NotificationDispatcher {
	return &inlineDispatcher{notifications: notifications}
}

func (d *inlineDispatcher) Dispatch(ctx context.Context, n *domain.Notification) error {
	return d.notifications.Deliver(ctx, n)
}
