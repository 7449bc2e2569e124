package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/realtime"
)

type stubBroadcaster struct {
	online bool
	sent   []realtime.Envelope
}

func (b *stubBroadcaster) Send(_ string, envelope realtime.Envelope) bool {
	if !b.online {
		return false
	}
	b.sent = append(b.sent, envelope)
	return true
}

type stubFallback struct {
	notifications []Notification
	messages      []*domain.Message
	err           error
}

func (f *stubFallback) NotifyEvent(_ context.Context, _ string, n Notification) error {
	f.notifications = append(f.notifications, n)
	return f.err
}

func (f *stubFallback) NotifyMessage(_ context.Context, msg *domain.Message) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func routerFixture(online bool) (*Router, *stubBroadcaster, *stubFallback) {
	broadcaster := &stubBroadcaster{online: online}
	fallback := &stubFallback{}
	return NewRouter(broadcaster, fallback, zap.NewNop()), broadcaster, fallback
}

func TestRouteLiveDeliverySkipsFallback(t *testing.T) {
	router, broadcaster, fallback := routerFixture(true)

	outcome := router.Route(context.Background(), "user-1", Notification{ID: "n-1", Subject: "hi"})

	assert.Equal(t, OutcomeDelivered, outcome)
	require.Len(t, broadcaster.sent, 1)
	assert.Equal(t, realtime.FrameNotification, broadcaster.sent[0].Type)
	assert.Empty(t, fallback.notifications, "a delivered recipient never gets the email too")
}

func TestRouteOfflineRecipientFallsBackOnce(t *testing.T) {
	router, broadcaster, fallback := routerFixture(false)

	outcome := router.Route(context.Background(), "user-1", Notification{ID: "n-1", Subject: "hi"})

	assert.Equal(t, OutcomeFallback, outcome)
	assert.Empty(t, broadcaster.sent)
	require.Len(t, fallback.notifications, 1)
	assert.Equal(t, "n-1", fallback.notifications[0].ID)
}

func TestRouteFallbackErrorStillReportsFallback(t *testing.T) {
	router, _, fallback := routerFixture(false)
	fallback.err = errors.New("smtp down")

	outcome := router.Route(context.Background(), "user-1", Notification{ID: "n-1"})

	assert.Equal(t, OutcomeFallback, outcome,
		"provider failures are logged, not surfaced to the transition")
}

func TestRouteMessageLiveDelivery(t *testing.T) {
	router, broadcaster, fallback := routerFixture(true)
	msg := &domain.Message{ID: "msg-1", SenderID: "a", ReceiverID: "b", Content: "hello"}

	outcome := router.RouteMessage(context.Background(), msg)

	assert.Equal(t, OutcomeDelivered, outcome)
	require.Len(t, broadcaster.sent, 1)
	assert.Equal(t, realtime.FrameNewMessage, broadcaster.sent[0].Type)
	assert.Empty(t, fallback.messages)
}

func TestRouteMessageOfflineReceiverFallsBack(t *testing.T) {
	router, _, fallback := routerFixture(false)
	msg := &domain.Message{ID: "msg-1", SenderID: "a", ReceiverID: "b", Content: "hello"}

	outcome := router.RouteMessage(context.Background(), msg)

	assert.Equal(t, OutcomeFallback, outcome)
	require.Len(t, fallback.messages, 1)
	assert.Equal(t, "msg-1", fallback.messages[0].ID)
}
