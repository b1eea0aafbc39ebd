package submqueue

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Msg is one received, not yet acknowledged queue message. The transport
// redelivers it after the visibility timeout unless Ack is called.
type Msg struct {
	Body   string
	handle string

	// Deliveries counts how many times the transport has handed this
	// message out, this delivery included.
	Deliveries int
}

// Consumer reads pipeline messages from one SQS queue with long polling.
type Consumer struct {
	client   *sqs.Client
	queueUrl string
}

func NewConsumer(client *sqs.Client, queueUrl string) *Consumer {
	return &Consumer{client: client, queueUrl: queueUrl}
}

// Receive long-polls the queue and returns up to 10 messages. An empty slice
// means the poll timed out without messages.
func (c *Consumer) Receive(ctx context.Context) ([]Msg, error) {
	output, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueUrl),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     5,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from %s: %w", c.queueUrl, err)
	}

	msgs := make([]Msg, 0, len(output.Messages))
	for _, m := range output.Messages {
		if m.Body == nil || m.ReceiptHandle == nil {
			continue
		}
		deliveries := 1
		if v, ok := m.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				deliveries = n
			}
		}
		msgs = append(msgs, Msg{
			Body:       *m.Body,
			handle:     *m.ReceiptHandle,
			Deliveries: deliveries,
		})
	}
	return msgs, nil
}

// Ack deletes the message so the transport stops redelivering it.
func (c *Consumer) Ack(ctx context.Context, m Msg) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueUrl),
		ReceiptHandle: aws.String(m.handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from %s: %w", c.queueUrl, err)
	}
	return nil
}
