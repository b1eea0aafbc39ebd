package wshub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type senderMock struct {
	frames  [][]byte
	sendErr error
}

func (s *senderMock) send(ctx context.Context, data []byte) error {
	s.frames = append(s.frames, data)
	return s.sendErr
}

func TestSendToUnknownConnection(t *testing.T) {
	h := NewHub()
	err := h.SendTo(context.Background(), "nope", "submission-result", nil)
	require.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestSendToDeliversFrame(t *testing.T) {
	h := NewHub()
	s := &senderMock{}
	h.register("conn-1", s)

	err := h.SendTo(context.Background(), "conn-1", "submission-result",
		map[string]string{"verdict": "accepted"})
	require.NoError(t, err)
	require.Len(t, s.frames, 1)

	var f frame
	require.NoError(t, json.Unmarshal(s.frames[0], &f))
	require.Equal(t, "submission-result", f.Event)
	payload, ok := f.Payload.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "accepted", payload["verdict"])
}

func TestSendToRemovedConnection(t *testing.T) {
	h := NewHub()
	h.register("conn-1", &senderMock{})
	h.remove("conn-1")

	err := h.SendTo(context.Background(), "conn-1", "submission-result", nil)
	require.ErrorIs(t, err, ErrConnectionNotFound)
	require.Equal(t, 0, h.ConnCount())
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	h := NewHub()
	a := &senderMock{}
	b := &senderMock{}
	h.register("conn-a", a)
	h.register("conn-b", b)

	h.Broadcast(context.Background(), "ranking-update", map[string]int{"rankOrder": 1})
	require.Len(t, a.frames, 1)
	require.Len(t, b.frames, 1)
	require.Equal(t, 2, h.ConnCount())
}

func TestBroadcastSurvivesSendFailure(t *testing.T) {
	h := NewHub()
	broken := &senderMock{sendErr: errors.New("peer gone")}
	healthy := &senderMock{}
	h.register("conn-broken", broken)
	h.register("conn-healthy", healthy)

	h.Broadcast(context.Background(), "ranking-update", nil)
	require.Len(t, healthy.frames, 1)
}
