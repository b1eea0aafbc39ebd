package subm

import (
	"fmt"
	"net/http"

	"github.com/codearena/backend/contest"
	"github.com/codearena/backend/srvcerror"
)

const ErrCodeCompetitionNotFound = "competition_not_found"

func ErrCompetitionNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCompetitionNotFound,
		"The competition was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeCompetitionNotOngoing = "competition_not_ongoing"

func ErrCompetitionNotOngoing(state contest.State) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCompetitionNotOngoing,
		fmt.Sprintf("The competition is not accepting submissions (state: %s)", state),
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeGroupNotRegistered = "group_not_registered"

func ErrGroupNotRegistered() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGroupNotRegistered,
		"The group is not registered in this competition",
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeGroupBlocked = "group_blocked"

func ErrGroupBlocked() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGroupBlocked,
		"The group is blocked and cannot submit",
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeExerciseNotInCompetition = "exercise_not_in_competition"

func ErrExerciseNotInCompetition() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeExerciseNotInCompetition,
		"The exercise does not belong to this competition",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidLanguage = "invalid_programming_language"

func ErrInvalidLanguage() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidLanguage,
		"Invalid or disabled programming language",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSubmissionTooLong = "submission_too_long"

func ErrSubmissionTooLong(maxKB int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionTooLong,
		fmt.Sprintf("The submitted code is too long, the maximum is %d KB", maxKB),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmptySubmission = "empty_submission"

func ErrEmptySubmission() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptySubmission,
		"The submitted code is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
