package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/subm"
	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// queueRecorder doubles as command source, result publisher and dead-letter
// queue, recording the order of queue operations.
type queueRecorder struct {
	events     []string
	published  []submqueue.SubmissionResult
	deadLetter []string
	acked      []submqueue.Msg

	publishErr error
	forwardErr error
}

func (q *queueRecorder) Receive(ctx context.Context) ([]submqueue.Msg, error) {
	return nil, nil
}

func (q *queueRecorder) Ack(ctx context.Context, m submqueue.Msg) error {
	q.events = append(q.events, "ack")
	q.acked = append(q.acked, m)
	return nil
}

func (q *queueRecorder) PublishResult(ctx context.Context, res submqueue.SubmissionResult) error {
	q.events = append(q.events, "publish")
	q.published = append(q.published, res)
	return q.publishErr
}

func (q *queueRecorder) ForwardRaw(ctx context.Context, body string) error {
	q.events = append(q.events, "dead-letter")
	q.deadLetter = append(q.deadLetter, body)
	return q.forwardErr
}

type scriptedJudge struct {
	verdict submqueue.Verdict
	err     error
}

func (j scriptedJudge) Submit(ctx context.Context, problemRef, code, language string) (submqueue.Verdict, time.Duration, error) {
	return j.verdict, 40 * time.Millisecond, j.err
}

// newRunnerFixture wires a Runner over in-memory stores, the recorder queues
// and a scripted judge; the returned command passes validation.
func newRunnerFixture(j scriptedJudge, q *queueRecorder) (*Runner, submqueue.SubmissionCommand) {
	comp := contest.Competition{
		ID:                uuid.New(),
		Title:             "Autumn Open",
		State:             contest.StateOngoing,
		StartedAt:         time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC),
		SubmissionPenalty: 20 * time.Minute,
	}
	group := contest.Group{ID: uuid.New(), Name: "the-crew"}
	exercise := contest.Exercise{
		ID:            uuid.New(),
		CompetitionID: comp.ID,
		Title:         "A",
		ProblemRef:    "a",
		Weight:        1,
	}

	contests := contest.NewInMemRepo()
	contests.PutCompetition(comp)
	contests.PutExercise(exercise)
	contests.Register(comp.ID, group)

	consumer := NewConsumer(contests, subm.NewInMemAttemptRepo(), j, NewInMemLocker())
	runner := NewRunner(consumer, q, q, q, 3, 1)

	cmd := submqueue.SubmissionCommand{
		Version:       submqueue.SchemaVersion,
		CorrelationID: uuid.New(),
		ConnectionID:  "conn-1",
		GroupID:       group.ID,
		ExerciseID:    exercise.ID,
		CompetitionID: comp.ID,
		Code:          "int main() {}",
		Language:      "cpp17",
		SubmittedAt:   comp.StartedAt.Add(10 * time.Minute),
	}
	return runner, cmd
}

func commandMsg(t *testing.T, cmd submqueue.SubmissionCommand, deliveries int) submqueue.Msg {
	t.Helper()
	body, err := json.Marshal(cmd)
	require.NoError(t, err)
	return submqueue.Msg{Body: string(body), Deliveries: deliveries}
}

func TestProcessPublishesResultThenAcks(t *testing.T) {
	q := &queueRecorder{}
	r, cmd := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)

	r.process(context.Background(), commandMsg(t, cmd, 1))

	require.Equal(t, []string{"publish", "ack"}, q.events)
	require.Len(t, q.published, 1)
	require.True(t, q.published[0].Success)
	require.Equal(t, cmd.CorrelationID, q.published[0].CorrelationID)
	require.Empty(t, q.deadLetter)
}

func TestProcessLeavesCommandWhenPublishFails(t *testing.T) {
	// the command must stay in flight so the transport redelivers it;
	// acking after a failed publish would lose the result forever
	q := &queueRecorder{publishErr: errors.New("queue unreachable")}
	r, cmd := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)

	r.process(context.Background(), commandMsg(t, cmd, 1))

	require.Equal(t, []string{"publish"}, q.events)
	require.Empty(t, q.acked)
}

func TestProcessDeadLettersExhaustedRedelivery(t *testing.T) {
	// past the redelivery budget the client gets a failure result, the
	// command is parked for inspection and the message is acked
	q := &queueRecorder{}
	r, cmd := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)

	msg := commandMsg(t, cmd, 4) // budget is 3
	r.process(context.Background(), msg)

	require.Equal(t, []string{"publish", "dead-letter", "ack"}, q.events)
	require.Len(t, q.published, 1)
	require.False(t, q.published[0].Success)
	require.Equal(t, cmd.CorrelationID, q.published[0].CorrelationID)
	require.Equal(t, cmd.ConnectionID, q.published[0].ConnectionID)
	require.Equal(t, []string{msg.Body}, q.deadLetter)
}

func TestProcessDeadLettersUndecodableCommand(t *testing.T) {
	q := &queueRecorder{}
	r, _ := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)

	r.process(context.Background(), submqueue.Msg{Body: "{not json", Deliveries: 1})

	require.Equal(t, []string{"dead-letter", "ack"}, q.events)
	require.Empty(t, q.published)
}

func TestProcessDeadLettersForeignSchemaVersion(t *testing.T) {
	q := &queueRecorder{}
	r, cmd := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)
	cmd.Version = submqueue.SchemaVersion + 1

	r.process(context.Background(), commandMsg(t, cmd, 1))

	require.Equal(t, []string{"dead-letter", "ack"}, q.events)
	require.Empty(t, q.published)
}

func TestProcessTransientFailureLeavesCommand(t *testing.T) {
	// no terminal outcome: nothing published, nothing acked, the transport
	// redelivers
	q := &queueRecorder{}
	r, cmd := newRunnerFixture(scriptedJudge{err: errors.New("judge service unavailable")}, q)

	r.process(context.Background(), commandMsg(t, cmd, 1))

	require.Empty(t, q.events)
}

func TestProcessKeepsMessageWhenDeadLetterFails(t *testing.T) {
	q := &queueRecorder{forwardErr: errors.New("queue unreachable")}
	r, _ := newRunnerFixture(scriptedJudge{verdict: submqueue.VerdictAccepted}, q)

	r.process(context.Background(), submqueue.Msg{Body: "{not json", Deliveries: 1})

	require.Equal(t, []string{"dead-letter"}, q.events)
	require.Empty(t, q.acked)
}
