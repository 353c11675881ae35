package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/internal/domain"
)

type recordingNotifications struct {
	delivered []*domain.Notification
	err       error
}

func (r *recordingNotifications) Deliver(ctx context.Context, n *domain.Notification) error {
	r.delivered = append(r.delivered, n)
	return r.err
}

func (r *recordingNotifications) SendCustom(ctx context.Context, eventID int64, msg *domain.CustomNotification) (int, error) {
	return 0, nil
}

func TestInlineDispatcher(t *testing.T) {
	rec := &recordingNotifications{}
	d := NewInlineDispatcher(rec)
	n := &domain.Notification{Type: domain.MessageRegistrationNew, Recipient: domain.RecipientUser, RegistrationID: 3}

	require.NoError(t, d.Dispatch(context.Background(), n))
	assert.Equal(t, []*domain.Notification{n}, rec.delivered)

	rec.err = errors.New("smtp down")
	assert.ErrorIs(t, d.Dispatch(context.Background(), n), rec.err)
}
