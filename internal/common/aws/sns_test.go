package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func TestSNSPublisher_Publish(t *testing.T) {
	var captured *sns.PublishInput
	client := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{MessageId: awssdk.String("msg-123")}, nil
		},
	}

	p := NewSNSPublisherWithClient(client, "arn:aws:sns:us-east-1:000000000000:body-models")
	id, err := p.Publish(context.Background(), "body-model.created", map[string]string{"bodyModelId": "bm-1"})

	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)
	require.NotNil(t, captured)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:body-models", awssdk.ToString(captured.TopicArn))
	assert.JSONEq(t, `{"bodyModelId":"bm-1"}`, awssdk.ToString(captured.Message))
	assert.Equal(t, "body-model.created", awssdk.ToString(captured.MessageAttributes["eventType"].StringValue))
}

func TestSNSPublisher_Errors(t *testing.T) {
	t.Run("publish failure", func(t *testing.T) {
		client := &MockSNSService{
			PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
				return nil, errors.New("throttled")
			},
		}
		_, err := NewSNSPublisherWithClient(client, "arn").Publish(context.Background(), "evt", struct{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})

	t.Run("unmarshalable event", func(t *testing.T) {
		client := &MockSNSService{
			PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
				t.Fatal("publish should not be called")
				return nil, nil
			},
		}
		_, err := NewSNSPublisherWithClient(client, "arn").Publish(context.Background(), "evt", make(chan int))
		assert.Error(t, err)
	})
}
