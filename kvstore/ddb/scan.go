/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/kvbridge/kvstore"
)

// Keys scans the table page by page. The literal prefix of pattern is pushed down
// as a begins_with filter; the full pattern is matched locally.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	g, err := kvstore.CompilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	input := buildKeysScan(s.tableName, kvstore.LiteralPrefix(pattern))

	var keys []string
	var lastEvaluatedKey map[string]types.AttributeValue
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		for _, item := range out.Items {
			sv, ok := item[attrKey].(*types.AttributeValueMemberS)
			if ok && g.Match(sv.Value) {
				keys = append(keys, sv.Value)
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return keys, nil
}

func buildKeysScan(table, prefix string) *sdk.ScanInput {
	input := &sdk.ScanInput{
		TableName:                aws.String(table),
		ProjectionExpression:     aws.String("#key"),
		ExpressionAttributeNames: map[string]string{"#key": attrKey},
		ConsistentRead:           aws.Bool(true),
	}
	if prefix != "" {
		input.FilterExpression = aws.String("begins_with(#key, :prefix)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		}
	}
	return input
}
