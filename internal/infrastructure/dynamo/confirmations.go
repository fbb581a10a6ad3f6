package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pelada-api/internal/domain"
)

// ConfirmationRepo provides typed DynamoDB operations for the confirmations
// table, keyed by (session_id, player_id).
type ConfirmationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewConfirmationRepo(client *dynamodb.Client, tableName string) *ConfirmationRepo {
	return &ConfirmationRepo{client: client, tableName: tableName}
}

func (r *ConfirmationRepo) Put(ctx context.Context, c *domain.Confirmation) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// PutIfAbsent inserts the row only when no row exists for the pair yet.
// Returns domain.ErrConflict when one does, leaving the existing row intact.
func (r *ConfirmationRepo) PutIfAbsent(ctx context.Context, c *domain.Confirmation) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(session_id) AND attribute_not_exists(player_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("confirmation exists for session %s player %s: %w",
				c.SessionID, c.PlayerID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *ConfirmationRepo) Get(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("session_id", sessionID, "player_id", playerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("confirmation not found: %w", domain.ErrNotFound)
	}
	var c domain.Confirmation
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListBySession returns every confirmation row of one session.
func (r *ConfirmationRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Confirmation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, err
	}
	var confs []domain.Confirmation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &confs); err != nil {
		return nil, err
	}
	return confs, nil
}
