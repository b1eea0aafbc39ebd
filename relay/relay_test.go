package relay_test

import (
	"context"
	"testing"

	"github.com/codearena/backend/relay"
	"github.com/codearena/backend/submqueue"
	"github.com/codearena/backend/wshub"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type sent struct {
	connectionID string
	event        string
	payload      any
}

type broadcast struct {
	event   string
	payload any
}

type pushMock struct {
	sendToErr  error
	sends      []sent
	broadcasts []broadcast
}

func (p *pushMock) SendTo(ctx context.Context, connectionID, event string, payload any) error {
	p.sends = append(p.sends, sent{connectionID, event, payload})
	return p.sendToErr
}

func (p *pushMock) Broadcast(ctx context.Context, event string, payload any) {
	p.broadcasts = append(p.broadcasts, broadcast{event, payload})
}

func successResult() submqueue.SubmissionResult {
	return submqueue.SubmissionResult{
		Version:         submqueue.SchemaVersion,
		CorrelationID:   uuid.New(),
		ConnectionID:    "conn-7",
		CompetitionID:   uuid.New(),
		GroupID:         uuid.New(),
		Success:         true,
		Accepted:        true,
		Verdict:         submqueue.VerdictAccepted,
		RankOrder:       3,
		Points:          2,
		PenaltySeconds:  3600,
		SolvedExercises: 2,
	}
}

func TestDispatchSuccessPushesAndBroadcasts(t *testing.T) {
	push := &pushMock{}
	r := relay.NewRelay(nil, push)
	res := successResult()

	r.Dispatch(context.Background(), res)

	require.Len(t, push.sends, 1)
	require.Equal(t, "conn-7", push.sends[0].connectionID)
	require.Equal(t, relay.EventSubmissionResult, push.sends[0].event)
	require.Equal(t, res, push.sends[0].payload)

	require.Len(t, push.broadcasts, 1)
	require.Equal(t, relay.EventRankingUpdate, push.broadcasts[0].event)
	update, ok := push.broadcasts[0].payload.(relay.RankingUpdate)
	require.True(t, ok)
	require.Equal(t, res.CompetitionID.String(), update.CompetitionID)
	require.Equal(t, res.GroupID.String(), update.GroupID)
	require.Equal(t, 3, update.RankOrder)
	require.Equal(t, 2.0, update.Points)
	require.Equal(t, 3600.0, update.PenaltySeconds)
	require.Equal(t, 2, update.SolvedExercises)
}

func TestDispatchFailureDoesNotBroadcast(t *testing.T) {
	// a rejected submission changes nothing in the ranking, only the
	// originating client hears about it
	push := &pushMock{}
	r := relay.NewRelay(nil, push)
	res := successResult()
	res.Success = false
	res.ErrorMessage = "competition not found"

	r.Dispatch(context.Background(), res)

	require.Len(t, push.sends, 1)
	require.Empty(t, push.broadcasts)
}

func TestDispatchGoneConnectionStillBroadcasts(t *testing.T) {
	push := &pushMock{sendToErr: wshub.ErrConnectionNotFound}
	r := relay.NewRelay(nil, push)

	r.Dispatch(context.Background(), successResult())

	// the originating client is gone but everyone else still gets the
	// ranking update
	require.Len(t, push.broadcasts, 1)
}
