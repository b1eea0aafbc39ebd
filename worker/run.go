package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/codearena/backend/logger"
	"github.com/codearena/backend/submqueue"
)

// CommandSource is the receive side of the submission command queue. A
// received message stays in flight until Ack; the transport redelivers it
// otherwise.
type CommandSource interface {
	Receive(ctx context.Context) ([]submqueue.Msg, error)
	Ack(ctx context.Context, m submqueue.Msg) error
}

// ResultPublisher publishes submission results to the API process's queue.
type ResultPublisher interface {
	PublishResult(ctx context.Context, res submqueue.SubmissionResult) error
}

// DeadLetterQueue parks undeliverable command bodies for inspection.
type DeadLetterQueue interface {
	ForwardRaw(ctx context.Context, body string) error
}

// Runner is the worker process's receive loop: it pulls submission commands
// from the queue with bounded concurrency and hands them to the Consumer.
type Runner struct {
	consumer *Consumer
	commands CommandSource
	results  ResultPublisher
	deadLtr  DeadLetterQueue

	// maxDeliveries bounds transport redelivery; a command delivered more
	// often is dead-lettered and surfaced to the client as a failure.
	maxDeliveries int
	concurrency   int
}

func NewRunner(
	consumer *Consumer,
	commands CommandSource,
	results ResultPublisher,
	deadLetter DeadLetterQueue,
	maxDeliveries int,
	concurrency int,
) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		consumer:      consumer,
		commands:      commands,
		results:       results,
		deadLtr:       deadLetter,
		maxDeliveries: maxDeliveries,
		concurrency:   concurrency,
	}
}

// Run blocks until ctx is done. In-flight commands are cancelled through ctx
// and left unacknowledged so another worker instance picks them up.
func (r *Runner) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("worker started", "concurrency", r.concurrency,
		"max_deliveries", r.maxDeliveries)

	throttle := make(chan struct{}, r.concurrency)
	for i := 0; i < r.concurrency; i++ {
		throttle <- struct{}{}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		msgs, err := r.commands.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("failed to receive commands", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}
		for _, m := range msgs {
			select {
			case <-ctx.Done():
				return nil
			case <-throttle:
			}
			go func(m submqueue.Msg) {
				defer func() { throttle <- struct{}{} }()
				r.process(ctx, m)
			}(m)
		}
	}
}

func (r *Runner) process(ctx context.Context, m submqueue.Msg) {
	log := logger.FromContext(ctx)

	var cmd submqueue.SubmissionCommand
	if err := json.Unmarshal([]byte(m.Body), &cmd); err != nil {
		log.Error("undecodable submission command, dead-lettering", "error", err)
		r.deadLetterAndAck(ctx, m)
		return
	}
	if cmd.Version != submqueue.SchemaVersion {
		log.Error("submission command with foreign schema version, dead-lettering",
			"version", cmd.Version)
		r.deadLetterAndAck(ctx, m)
		return
	}

	ctx = logger.WithCorrelationID(ctx, cmd.CorrelationID.String())
	log = logger.FromContext(ctx)

	if m.Deliveries > r.maxDeliveries {
		// The retry budget covers transient judge and store outages. Past
		// it the client must not be left waiting: surface the failure, park
		// the command for inspection, and stop redelivery.
		log.Error("redelivery budget exhausted, dead-lettering",
			"deliveries", m.Deliveries)
		res := failureResult(cmd, "submission could not be processed after repeated attempts")
		if err := r.results.PublishResult(ctx, *res); err != nil {
			log.Error("failed to publish dead-letter failure result", "error", err)
		}
		r.deadLetterAndAck(ctx, m)
		return
	}

	res, err := r.consumer.Handle(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("shutdown during processing, command left for redelivery")
			return
		}
		log.Error("transient processing failure, command left for redelivery",
			"error", err, "deliveries", m.Deliveries)
		return
	}

	if err := r.results.PublishResult(ctx, *res); err != nil {
		log.Error("failed to publish result, command left for redelivery", "error", err)
		return
	}
	if err := r.commands.Ack(ctx, m); err != nil {
		log.Error("failed to ack command", "error", err)
	}
}

func (r *Runner) deadLetterAndAck(ctx context.Context, m submqueue.Msg) {
	log := logger.FromContext(ctx)
	if err := r.deadLtr.ForwardRaw(ctx, m.Body); err != nil {
		log.Error("failed to forward command to dead-letter queue", "error", err)
		return // keep the message so nothing is silently lost
	}
	if err := r.commands.Ack(ctx, m); err != nil {
		log.Error("failed to ack dead-lettered command", "error", err)
	}
}
