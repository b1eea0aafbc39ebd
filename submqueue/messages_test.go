package submqueue_test

import (
	"encoding/json"
	"testing"

	"github.com/codearena/backend/submqueue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// A failure result carries errorMessage and no attemptId; a success result
// carries attemptId and no errorMessage.
func TestSubmissionResultFieldPresence(t *testing.T) {
	failure := submqueue.SubmissionResult{
		Version:       submqueue.SchemaVersion,
		CorrelationID: uuid.New(),
		ConnectionID:  "conn-1",
		Success:       false,
		ErrorMessage:  "competition not found",
		Verdict:       submqueue.VerdictPending,
	}
	body, err := json.Marshal(failure)
	require.NoError(t, err)

	var failureFields map[string]any
	require.NoError(t, json.Unmarshal(body, &failureFields))
	require.NotContains(t, failureFields, "attemptId")
	require.Contains(t, failureFields, "errorMessage")

	attemptID := uuid.New()
	success := submqueue.SubmissionResult{
		Version:       submqueue.SchemaVersion,
		CorrelationID: uuid.New(),
		ConnectionID:  "conn-1",
		Success:       true,
		AttemptID:     &attemptID,
		Accepted:      true,
		Verdict:       submqueue.VerdictAccepted,
	}
	body, err = json.Marshal(success)
	require.NoError(t, err)

	var successFields map[string]any
	require.NoError(t, json.Unmarshal(body, &successFields))
	require.Equal(t, attemptID.String(), successFields["attemptId"])
	require.NotContains(t, successFields, "errorMessage")
}

func TestSubmissionResultRoundTripKeepsAttemptID(t *testing.T) {
	attemptID := uuid.New()
	res := submqueue.SubmissionResult{
		Version:   submqueue.SchemaVersion,
		Success:   true,
		AttemptID: &attemptID,
		Verdict:   submqueue.VerdictAccepted,
	}
	body, err := json.Marshal(res)
	require.NoError(t, err)

	var got submqueue.SubmissionResult
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.AttemptID)
	require.Equal(t, attemptID, *got.AttemptID)
}
