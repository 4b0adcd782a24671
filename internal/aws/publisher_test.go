package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type mockSQS struct {
	last *sqs.SendMessageInput
	err  error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.last = in
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_Send(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/orders")

	err := p.Send(context.Background(), `{"order_id":"o1"}`, map[string]string{
		"order_id":       "o1",
		"correlation_id": "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *mock.last.QueueUrl != "https://sqs.local/orders" {
		t.Fatalf("queue url mismatch: %s", *mock.last.QueueUrl)
	}
	if *mock.last.MessageBody != `{"order_id":"o1"}` {
		t.Fatalf("body mismatch: %s", *mock.last.MessageBody)
	}
	if _, ok := mock.last.MessageAttributes["correlation_id"]; ok {
		t.Fatalf("empty attribute should be skipped")
	}
	if v := mock.last.MessageAttributes["order_id"]; *v.StringValue != "o1" {
		t.Fatalf("order_id attribute mismatch")
	}
}

func TestPublisher_SendError(t *testing.T) {
	mock := &mockSQS{err: errors.New("boom")}
	p := NewPublisher(mock, "q")

	if err := p.Send(context.Background(), "{}", nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}
