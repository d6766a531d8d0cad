package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoService
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type DynamoService struct {
	Client DynamoAPI
	Log    *zap.Logger
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// GetItem loads one item into out. It returns ErrNotFound when the key has no item.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out interface{}) error {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	if output.Item == nil {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return nil
}

func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      marshaledItem,
	})
	if err != nil {
		ds.Log.Error("put item failed", zap.String("table", tableName), zap.Error(err))
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	ds.Log.Debug("item stored", zap.String("table", tableName))
	return nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// QueryAll runs a key condition query and follows LastEvaluatedKey until the result set is exhausted
func (ds *DynamoService) QueryAll(
	ctx context.Context,
	tableName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	return ds.QueryIndexAll(ctx, tableName, "", keyConditionExpression, "", expressionAttributeValues, expressionAttributeNames)
}

// QueryIndexAll is QueryAll against an optional secondary index with an optional filter expression
func (ds *DynamoService) QueryIndexAll(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(tableName),
			KeyConditionExpression:    aws.String(keyConditionExpression),
			ExpressionAttributeValues: expressionAttributeValues,
			ExpressionAttributeNames:  expressionAttributeNames,
			ExclusiveStartKey:         startKey,
		}
		if indexName != "" {
			input.IndexName = aws.String(indexName)
		}
		if filterExpression != "" {
			input.FilterExpression = aws.String(filterExpression)
		}

		output, err := ds.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	ds.Log.Debug("query finished", zap.String("table", tableName), zap.String("index", indexName), zap.Int("items", len(items)))
	return items, nil
}

// ConditionalPut builds one put of a write transaction
type ConditionalPut struct {
	Table     string
	Item      interface{}
	Condition string
	Names     map[string]string
	Values    map[string]types.AttributeValue
}

// TransactPut writes all puts or none. A failed condition returns ErrConflict.
func (ds *DynamoService) TransactPut(ctx context.Context, puts ...ConditionalPut) error {
	items := make([]types.TransactWriteItem, 0, len(puts))
	for _, p := range puts {
		marshaledItem, err := attributevalue.MarshalMap(p.Item)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		put := &types.Put{
			TableName:                 aws.String(p.Table),
			Item:                      marshaledItem,
			ExpressionAttributeNames:  p.Names,
			ExpressionAttributeValues: p.Values,
		}
		if p.Condition != "" {
			put.ConditionExpression = aws.String(p.Condition)
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	_, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		ds.Log.Debug("transaction canceled", zap.String("reason", aws.ToString(canceled.Message)))
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// ScanAll scans a whole table, optionally with a filter expression, following pagination
func (ds *DynamoService) ScanAll(
	ctx context.Context,
	tableName string,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(tableName),
			ExpressionAttributeValues: expressionAttributeValues,
			ExpressionAttributeNames:  expressionAttributeNames,
			ExclusiveStartKey:         startKey,
		}
		if filterExpression != "" {
			input.FilterExpression = aws.String(filterExpression)
		}

		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		startKey = output.LastEvaluatedKey
	}
	return items, nil
}
