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

// PlayerRepo provides typed DynamoDB operations for the players table.
type PlayerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPlayerRepo(client *dynamodb.Client, tableName string) *PlayerRepo {
	return &PlayerRepo{client: client, tableName: tableName}
}

func (r *PlayerRepo) Put(ctx context.Context, p *domain.Player) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal player: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PlayerRepo) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("player_id", playerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("player not found: %w", domain.ErrNotFound)
	}
	var p domain.Player
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPhone looks up a player by phone via GSI. Used by the inbound
// response webhook to map a sender to a player.
func (r *PlayerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone-index"),
		KeyConditionExpression: aws.String("phone = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: phone},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("player not found: %w", domain.ErrNotFound)
	}
	var p domain.Player
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive queries the enable-index GSI for enabled players.
// Soft-deleted players never appear here.
func (r *PlayerRepo) ListActive(ctx context.Context) ([]domain.Player, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("enable-index"),
		KeyConditionExpression: aws.String("enable = :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		return nil, err
	}
	var players []domain.Player
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *PlayerRepo) Update(ctx context.Context, playerID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("player_id", playerID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *PlayerRepo) SoftDelete(ctx context.Context, playerID string) error {
	return r.Update(ctx, playerID, map[string]interface{}{
		fieldEnable:    0,
		fieldDeletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
