package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pelada-api/internal/domain"
)

// GameRepo provides typed DynamoDB operations for the games table.
type GameRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewGameRepo(client *dynamodb.Client, tableName string) *GameRepo {
	return &GameRepo{client: client, tableName: tableName}
}

func (r *GameRepo) Put(ctx context.Context, g *domain.Game) error {
	item, err := attributevalue.MarshalMap(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *GameRepo) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("game_id", gameID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("game not found: %w", domain.ErrNotFound)
	}
	var g domain.Game
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Scan returns all games. The table stays tiny (a handful of recurring
// events), so a scan is fine here.
func (r *GameRepo) Scan(ctx context.Context) ([]domain.Game, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var games []domain.Game
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *GameRepo) Update(ctx context.Context, gameID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("game_id", gameID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *GameRepo) SoftDelete(ctx context.Context, gameID string) error {
	return r.Update(ctx, gameID, map[string]interface{}{fieldEnable: 0})
}
