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

// SentRepo is the idempotency ledger: one row per dispatched
// (session, rule number) pair, written with a conditional put so a record
// can never be created twice.
type SentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSentRepo(client *dynamodb.Client, tableName string) *SentRepo {
	return &SentRepo{client: client, tableName: tableName}
}

// Put inserts the sent record. Returns domain.ErrConflict when a record for
// the pair already exists, making check-then-act safe for callers.
func (r *SentRepo) Put(ctx context.Context, rec *domain.SentReminder) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal sent reminder: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(session_id) AND attribute_not_exists(rule_number)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("reminder already sent for session %s rule %d: %w",
				rec.SessionID, rec.RuleNumber, domain.ErrConflict)
		}
		return err
	}
	return nil
}

// ListBySession returns all sent records of one session.
func (r *SentRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.SentReminder, error) {
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
	var recs []domain.SentReminder
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes one sent record. Administrative re-trigger path only; the
// engine itself never deletes ledger entries.
func (r *SentRepo) Delete(ctx context.Context, sessionID string, ruleNumber int) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       numSortKey("session_id", sessionID, "rule_number", ruleNumber),
	})
	return err
}
