/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
)

// Attribute names of the single-table layout.
const (
	attrKey     = "Key"
	attrKind    = "Kind"
	attrMembers = "Members"
	attrValue   = "Value"

	// fieldPrefix keeps hash fields apart from the layout attributes.
	fieldPrefix = "f:"

	kindHash    = "hash"
	kindSet     = "set"
	kindCounter = "counter"
)

// ErrWrongType mirrors Redis' WRONGTYPE reply.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// API is the subset of the DynamoDB client used by Store.
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Scan(ctx context.Context, in *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	TransactGetItems(ctx context.Context, in *sdk.TransactGetItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactGetItemsOutput, error)
	TransactWriteItems(ctx context.Context, in *sdk.TransactWriteItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, in *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

// Config holds the AWS parameters. Empty keys fall back to the default credential chain.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Table     string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// Store implements kvstore.Store on a DynamoDB table whose partition key is the
// string attribute "Key". Hashes, sets and counters are items tagged by "Kind".
type Store struct {
	client    API
	tableName string
}

// NewDynamoDBClient initializes a DynamoDB client using AWS credentials.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// New wraps an existing client.
func New(client API, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// Connect creates a client and checks that the table is reachable.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, kverrors.NewValidationError("Table", "table name is required")
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, kverrors.NewConnectionError("dynamodb", err)
	}
	if _, err := client.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(cfg.Table)}); err != nil {
		return nil, kverrors.NewConnectionError("dynamodb", err)
	}
	return New(client, cfg.Table), nil
}

func keyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKey: &types.AttributeValueMemberS{Value: key},
	}
}

// kindGuard is the condition that keeps an item from changing kind.
const kindGuard = "attribute_not_exists(#key) OR #kind = :kind"

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 keyOf(key),
		UpdateExpression:    aws.String("ADD #value :one SET #kind = :kind"),
		ConditionExpression: aws.String(kindGuard),
		ExpressionAttributeNames: map[string]string{
			"#key":   attrKey,
			"#kind":  attrKind,
			"#value": attrValue,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":kind": &types.AttributeValueMemberS{Value: kindCounter},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, wrongType(err, "incr")
	}

	var n int64
	if err := attributevalue.Unmarshal(out.Attributes[attrValue], &n); err != nil {
		return 0, fmt.Errorf("failed to unmarshal counter: %w", err)
	}
	return n, nil
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if _, err := s.client.UpdateItem(ctx, buildHSet(s.tableName, key, fields)); err != nil {
		return wrongType(err, "hset")
	}
	return nil
}

// buildHSet transforms a map of field->value into one UpdateItem call that sets each
// field as a prefixed top-level attribute.
func buildHSet(table, key string, fields map[string]string) *sdk.UpdateItemInput {
	setClauses := []string{"#kind = :kind"}
	names := map[string]string{"#key": attrKey, "#kind": attrKind}
	values := map[string]types.AttributeValue{
		":kind": &types.AttributeValueMemberS{Value: kindHash},
	}

	i := 0
	for field, val := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)
		setClauses = append(setClauses, placeholderName+" = "+placeholderValue)
		names[placeholderName] = fieldPrefix + field
		values[placeholderValue] = &types.AttributeValueMemberS{Value: val}
		i++
	}

	return &sdk.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       keyOf(key),
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String(kindGuard),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

func (s *Store) getItem(ctx context.Context, key string) (map[string]types.AttributeValue, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &s.tableName,
		Key:            keyOf(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	return out.Item, nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	item, err := s.getItem(ctx, key)
	if err != nil {
		return nil, err
	}
	return hashFromItem(item)
}

// hashFromItem extracts the prefixed field attributes of a hash item.
func hashFromItem(item map[string]types.AttributeValue) (map[string]string, error) {
	res := make(map[string]string)
	if item == nil {
		return res, nil
	}
	if kindOf(item) != kindHash {
		return nil, ErrWrongType
	}
	for name, av := range item {
		field, ok := strings.CutPrefix(name, fieldPrefix)
		if !ok {
			continue
		}
		sv, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("hash field %q is not a string attribute", field)
		}
		res[field] = sv.Value
	}
	return res, nil
}

func kindOf(item map[string]types.AttributeValue) string {
	if sv, ok := item[attrKind].(*types.AttributeValueMemberS); ok {
		return sv.Value
	}
	return ""
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:                &s.tableName,
		Key:                      keyOf(key),
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     aws.String("#key"),
		ExpressionAttributeNames: map[string]string{"#key": attrKey},
	})
	if err != nil {
		return false, fmt.Errorf("GetItem error: %w", err)
	}
	return out.Item != nil, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &s.tableName,
		Key:       keyOf(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	item, err := s.getItem(ctx, key)
	if err != nil {
		return nil, err
	}
	return membersFromItem(item)
}

func membersFromItem(item map[string]types.AttributeValue) ([]string, error) {
	if item == nil {
		return nil, nil
	}
	if kindOf(item) != kindSet {
		return nil, ErrWrongType
	}
	ss, ok := item[attrMembers].(*types.AttributeValueMemberSS)
	if !ok {
		return nil, nil
	}
	return ss.Value, nil
}

func (s *Store) SInter(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, kverrors.NewValidationError("keys", "sinter needs at least one key")
	}
	res, err := s.SMembers(ctx, keys[0])
	if err != nil {
		return nil, err
	}
	for _, k := range keys[1:] {
		if len(res) == 0 {
			break
		}
		members, err := s.SMembers(ctx, k)
		if err != nil {
			return nil, err
		}
		res = intersect(res, members)
	}
	return res, nil
}

func intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, m := range b {
		in[m] = struct{}{}
	}
	res := a[:0:0]
	for _, m := range a {
		if _, ok := in[m]; ok {
			res = append(res, m)
		}
	}
	return res
}

// wrongType turns a failed kind guard into ErrWrongType.
func wrongType(err error, op string) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return fmt.Errorf("%s: %w", op, ErrWrongType)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func (s *Store) Close() error {
	return nil
}

var _ kvstore.Store = (*Store)(nil)
