package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type dynamoItem struct {
	SessionID string `dynamodbav:"sessionId"`
	ContactProfile
	ExpiresAt int64 `dynamodbav:"expiresAt,omitempty"`
}

// DynamoStore keeps profiles in a DynamoDB table keyed by sessionId.
// expiresAt is written for the table's TTL attribute.
type DynamoStore struct {
	client dynamoAPI
	table  string
	ttl    time.Duration
	now    func() time.Time
}

// NewDynamoStore creates a DynamoDB-backed store.
func NewDynamoStore(client dynamoAPI, table string, ttl time.Duration) *DynamoStore {
	if client == nil {
		panic("profile: dynamodb client cannot be nil")
	}
	return &DynamoStore{client: client, table: table, ttl: ttl, now: time.Now}
}

func (s *DynamoStore) key(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
}

// Get loads the item and decodes the profile.
func (s *DynamoStore) Get(ctx context.Context, sessionID string) (ContactProfile, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ContactProfile{}, fmt.Errorf("profile: dynamodb get: %w", err)
	}
	if len(out.Item) == 0 {
		return ContactProfile{}, ErrNotFound
	}
	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return ContactProfile{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return item.ContactProfile, nil
}

// Put writes the whole item, replacing any previous version.
func (s *DynamoStore) Put(ctx context.Context, sessionID string, p ContactProfile) error {
	item := dynamoItem{SessionID: sessionID, ContactProfile: p}
	if s.ttl > 0 {
		item.ExpiresAt = s.now().Add(s.ttl).Unix()
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("profile: dynamodb put: %w", err)
	}
	return nil
}

// Delete removes the item.
func (s *DynamoStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(sessionID),
	}); err != nil {
		return fmt.Errorf("profile: dynamodb delete: %w", err)
	}
	return nil
}

var _ Store = (*DynamoStore)(nil)
