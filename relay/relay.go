// Package relay is the API-process end of the submission pipeline: it
// consumes submission results from the worker's queue and pushes them out on
// the real-time channel.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/codearena/backend/logger"
	"github.com/codearena/backend/submqueue"
	"github.com/codearena/backend/wshub"
)

const (
	EventSubmissionResult = "submission-result"
	EventRankingUpdate    = "ranking-update"
)

// PushChannel is the real-time channel results are pushed onto. Pushes are
// best effort: the relay never retries, a disconnected client re-fetches
// state through the query endpoints after reconnecting.
type PushChannel interface {
	SendTo(ctx context.Context, connectionID, event string, payload any) error
	Broadcast(ctx context.Context, event string, payload any)
}

// RankingUpdate is the broadcast payload that tells every client which
// competition's standings changed and where the submitting group now sits.
type RankingUpdate struct {
	CompetitionID   string  `json:"competitionId"`
	GroupID         string  `json:"groupId"`
	RankOrder       int     `json:"rankOrder"`
	Points          float64 `json:"points"`
	PenaltySeconds  float64 `json:"penalty"`
	SolvedExercises int     `json:"solvedExercises"`
}

// ResultSource is the receive side of the submission result queue.
type ResultSource interface {
	Receive(ctx context.Context) ([]submqueue.Msg, error)
	Ack(ctx context.Context, m submqueue.Msg) error
}

type Relay struct {
	results ResultSource
	push    PushChannel
}

func NewRelay(results ResultSource, push PushChannel) *Relay {
	return &Relay{results: results, push: push}
}

// Run blocks until ctx is done, relaying each received result exactly once
// per delivery.
func (r *Relay) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("result relay started")

	for {
		if ctx.Err() != nil {
			return nil
		}
		msgs, err := r.results.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("failed to receive results", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}
		for _, m := range msgs {
			// Ack before pushing: the push channel is fire-and-forget, so a
			// failed push must not cause a redelivery loop.
			if err := r.results.Ack(ctx, m); err != nil {
				log.Error("failed to ack result", "error", err)
			}

			var res submqueue.SubmissionResult
			if err := json.Unmarshal([]byte(m.Body), &res); err != nil {
				log.Error("undecodable submission result, dropping", "error", err)
				continue
			}
			if res.Version != submqueue.SchemaVersion {
				log.Error("submission result with foreign schema version, dropping",
					"version", res.Version)
				continue
			}
			r.Dispatch(ctx, res)
		}
	}
}

// Dispatch pushes one result to its originating connection and, on success,
// broadcasts the ranking update to everyone.
func (r *Relay) Dispatch(ctx context.Context, res submqueue.SubmissionResult) {
	ctx = logger.WithCorrelationID(ctx, res.CorrelationID.String())
	log := logger.FromContext(ctx)

	err := r.push.SendTo(ctx, res.ConnectionID, EventSubmissionResult, res)
	if err != nil {
		// Client gone or attached to another instance; it re-fetches on
		// reconnect.
		if errors.Is(err, wshub.ErrConnectionNotFound) {
			log.Info("originating connection gone, result not delivered",
				"connection_id", res.ConnectionID)
		} else {
			log.Error("failed to push result", "error", err,
				"connection_id", res.ConnectionID)
		}
	}

	if !res.Success {
		return
	}
	r.push.Broadcast(ctx, EventRankingUpdate, RankingUpdate{
		CompetitionID:   res.CompetitionID.String(),
		GroupID:         res.GroupID.String(),
		RankOrder:       res.RankOrder,
		Points:          res.Points,
		PenaltySeconds:  res.PenaltySeconds,
		SolvedExercises: res.SolvedExercises,
	})
}
