package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pelada-api/internal/domain"
)

// SessionRepo provides typed DynamoDB operations for the game sessions table.
type SessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSessionRepo(client *dynamodb.Client, tableName string) *SessionRepo {
	return &SessionRepo{client: client, tableName: tableName}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.GameSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("session_id", sessionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	var s domain.GameSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListScheduledFrom queries the status-date GSI for scheduled sessions whose
// date is at or after floorDate ("YYYY-MM-DD"). This is the repository-side
// floor for the engine's candidate set.
func (r *SessionRepo) ListScheduledFrom(ctx context.Context, floorDate string) ([]domain.GameSession, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-date-index"),
		KeyConditionExpression: aws.String("#st = :scheduled AND #dt >= :floor"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
			"#dt": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scheduled": &types.AttributeValueMemberS{Value: domain.SessionScheduled},
			":floor":     &types.AttributeValueMemberS{Value: floorDate},
		},
	})
	if err != nil {
		return nil, err
	}
	var sessions []domain.GameSession
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByGame queries the game_id GSI for all sessions of one game.
func (r *SessionRepo) ListByGame(ctx context.Context, gameID string) ([]domain.GameSession, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("game_id-index"),
		KeyConditionExpression: aws.String("game_id = :gid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":gid": &types.AttributeValueMemberS{Value: gameID},
		},
	})
	if err != nil {
		return nil, err
	}
	var sessions []domain.GameSession
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepo) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("session_id", sessionID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// SetStatus moves a session through its lifecycle (scheduled/completed/cancelled).
func (r *SessionRepo) SetStatus(ctx context.Context, sessionID, status string) error {
	return r.Update(ctx, sessionID, map[string]interface{}{fieldStatus: status})
}
