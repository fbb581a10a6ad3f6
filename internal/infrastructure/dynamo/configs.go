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

// ConfigRepo provides typed DynamoDB operations for the notification configs table.
// Schedules are persisted as their raw JSON array; parsing happens at the
// read boundary (EngineStore) and validation at the write boundary (service).
type ConfigRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewConfigRepo(client *dynamodb.Client, tableName string) *ConfigRepo {
	return &ConfigRepo{client: client, tableName: tableName}
}

func (r *ConfigRepo) Put(ctx context.Context, c *domain.NotificationConfig) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal notification config: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetBySession queries the session_id GSI. Configurations attach 1:1 to a
// session; when more than one row exists the newest write wins.
func (r *ConfigRepo) GetBySession(ctx context.Context, sessionID string) (*domain.NotificationConfig, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("session_id-index"),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("notification config not found: %w", domain.ErrNotFound)
	}
	var configs []domain.NotificationConfig
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &configs); err != nil {
		return nil, err
	}
	latest := configs[0]
	for _, c := range configs[1:] {
		if c.UpdatedAt.After(latest.UpdatedAt) {
			latest = c
		}
	}
	return &latest, nil
}

func (r *ConfigRepo) Update(ctx context.Context, configID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("config_id", configID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
