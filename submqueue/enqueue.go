package submqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Publisher sends pipeline messages to one SQS queue.
type Publisher struct {
	client   *sqs.Client
	queueUrl string
}

func NewPublisher(client *sqs.Client, queueUrl string) *Publisher {
	return &Publisher{client: client, queueUrl: queueUrl}
}

func (p *Publisher) EnqueueCommand(ctx context.Context, cmd SubmissionCommand) error {
	cmd.Version = SchemaVersion
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal submission command: %w", err)
	}
	return p.send(ctx, string(body))
}

func (p *Publisher) PublishResult(ctx context.Context, res SubmissionResult) error {
	res.Version = SchemaVersion
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal submission result: %w", err)
	}
	return p.send(ctx, string(body))
}

// ForwardRaw moves an already-serialized message body to this queue. Used to
// dead-letter commands whose redelivery budget is exhausted.
func (p *Publisher) ForwardRaw(ctx context.Context, body string) error {
	return p.send(ctx, body)
}

func (p *Publisher) send(ctx context.Context, body string) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueUrl),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", p.queueUrl, err)
	}
	return nil
}
