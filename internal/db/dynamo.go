package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Prediction table keys.
const (
	PartitionKey = "PredictionDate"
	SortKey      = "PredictionID"
)

// DynamoDBAPI is the slice of the DynamoDB client the audit store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBClient wraps the AWS SDK client for one table.
type DynamoDBClient struct {
	Client    DynamoDBAPI
	TableName string
}

func NewDynamoDBClient(client DynamoDBAPI, tableName string) *DynamoDBClient {
	return &DynamoDBClient{
		Client:    client,
		TableName: tableName,
	}
}

// PutItem inserts an item, rejecting duplicate prediction ids.
func (d *DynamoDBClient) PutItem(ctx context.Context, item map[string]types.AttributeValue) (*dynamodb.PutItemOutput, error) {
	output, err := d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		Item:      item,
		TableName: aws.String(d.TableName),
		ConditionExpression: aws.String(fmt.Sprintf(
			"attribute_not_exists(%s) AND attribute_not_exists(%s)",
			PartitionKey, SortKey,
		)),
	})

	var conditionCheckErr *types.ConditionalCheckFailedException
	if err != nil {
		if errors.As(err, &conditionCheckErr) {
			return nil, fmt.Errorf("prediction already recorded")
		}
		return nil, fmt.Errorf("failed to put item: %w", err)
	}

	return output, nil
}

// GetItem retrieves an item by primary key.
func (d *DynamoDBClient) GetItem(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	result, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.TableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("item not found")
	}
	return result.Item, nil
}

// QueryByPartition returns every item under one partition key value,
// following pagination.
func (d *DynamoDBClient) QueryByPartition(ctx context.Context, value string) ([]map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(PartitionKey).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		result, err := d.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(d.TableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}

		items = append(items, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}
