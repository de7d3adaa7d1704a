package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
)

const (
	keyAttribute       = "product_id"
	batchWriteLimit    = 25
	maxUnprocessedPass = 5

	unprocessedBaseDelay = 50 * time.Millisecond
	unprocessedMaxDelay  = 2 * time.Second
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoStore keeps one item per product in a DynamoDB table keyed by
// product_id (number).
type DynamoStore struct {
	ddb       DynamoAPI
	tableName string
	wait      func(ctx context.Context, d time.Duration) error
}

var _ domain.Store = (*DynamoStore)(nil)

func NewDynamoStore(ddb DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{ddb: ddb, tableName: tableName, wait: sleepContext}
}

// NewDynamoClient builds a DynamoDB client. A configured endpoint (for
// example DynamoDB Local) gets static placeholder credentials.
func NewDynamoClient(ctx context.Context, cfg config.InsightConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	endpoint := strings.TrimSpace(cfg.DynamoEndpoint)
	if endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoStore) DeleteAll(ctx context.Context) (int64, error) {
	var keys []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.ddb, &dynamodb.ScanInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("#pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keyAttribute,
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		for _, item := range page.Items {
			keys = append(keys, map[string]types.AttributeValue{keyAttribute: item[keyAttribute]})
		}
	}

	var deleted int64
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
		}
		if err := s.batchWrite(ctx, requests); err != nil {
			return deleted, err
		}
		deleted += int64(len(requests))
	}
	return deleted, nil
}

func (s *DynamoStore) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.tableName: requests}
	for pass := 0; pass < maxUnprocessedPass && len(pending[s.tableName]) > 0; pass++ {
		if pass > 0 {
			if err := s.wait(ctx, unprocessedDelay(pass)); err != nil {
				return fmt.Errorf("batch write %s: %w", s.tableName, err)
			}
		}
		out, err := s.ddb.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write %s: %w", s.tableName, err)
		}
		pending = out.UnprocessedItems
		if pending == nil {
			return nil
		}
	}
	if left := len(pending[s.tableName]); left > 0 {
		return fmt.Errorf("batch write %s: %d requests left unprocessed", s.tableName, left)
	}
	return nil
}

// unprocessedDelay doubles from unprocessedBaseDelay for each retry pass.
func unprocessedDelay(pass int) time.Duration {
	d := unprocessedBaseDelay << (pass - 1)
	if d <= 0 || d > unprocessedMaxDelay {
		return unprocessedMaxDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DynamoStore) InsertOne(ctx context.Context, record domain.InsightRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func (s *DynamoStore) FindAll(ctx context.Context) ([]domain.InsightRecord, error) {
	var records []domain.InsightRecord
	paginator := dynamodb.NewScanPaginator(s.ddb, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		var batch []domain.InsightRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}
