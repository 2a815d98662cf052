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
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
)

// maxTransactItems is DynamoDB's limit on items per transaction.
const maxTransactItems = 100

// Exec runs a batch as DynamoDB transactions. A batch must be all reads or all
// writes. Batches larger than maxTransactItems are split, and each chunk is atomic
// on its own.
func (s *Store) Exec(ctx context.Context, cmds []kvstore.Command) ([]kvstore.Reply, error) {
	if len(cmds) == 0 {
		return nil, nil
	}
	reads := 0
	for _, c := range cmds {
		if c.IsRead() {
			reads++
		}
	}
	switch reads {
	case len(cmds):
		return s.execReads(ctx, cmds)
	case 0:
		return make([]kvstore.Reply, len(cmds)), s.execWrites(ctx, cmds)
	default:
		return nil, kverrors.NewValidationError("", "batch mixes reads and writes")
	}
}

func (s *Store) execReads(ctx context.Context, cmds []kvstore.Command) ([]kvstore.Reply, error) {
	replies := make([]kvstore.Reply, 0, len(cmds))
	for start := 0; start < len(cmds); start += maxTransactItems {
		end := min(start+maxTransactItems, len(cmds))

		items := make([]types.TransactGetItem, 0, end-start)
		for _, c := range cmds[start:end] {
			items = append(items, types.TransactGetItem{
				Get: &types.Get{TableName: aws.String(s.tableName), Key: keyOf(c.Key)},
			})
		}
		out, err := s.client.TransactGetItems(ctx, &sdk.TransactGetItemsInput{TransactItems: items})
		if err != nil {
			return nil, fmt.Errorf("TransactGetItems failed: %w", err)
		}
		for _, resp := range out.Responses {
			h, err := hashFromItem(resp.Item)
			if err != nil {
				return nil, fmt.Errorf("hgetall: %w", err)
			}
			replies = append(replies, kvstore.Reply{Hash: h})
		}
	}
	return replies, nil
}

func (s *Store) execWrites(ctx context.Context, cmds []kvstore.Command) error {
	items := buildWriteItems(s.tableName, cmds)
	for start := 0; start < len(items); start += maxTransactItems {
		end := min(start+maxTransactItems, len(items))
		_, err := s.client.TransactWriteItems(ctx, &sdk.TransactWriteItemsInput{
			TransactItems: items[start:end],
		})
		if err != nil {
			return fmt.Errorf("TransactWriteItems failed: %w", err)
		}
	}
	return nil
}

// buildWriteItems turns SADD and DEL commands into transaction items. A transaction
// may touch each item once, so SADDs to the same key are merged and repeated DELs
// collapse.
func buildWriteItems(table string, cmds []kvstore.Command) []types.TransactWriteItem {
	var order []string
	members := make(map[string][]string)
	deletes := make(map[string]bool)
	for _, c := range cmds {
		if _, seen := members[c.Key]; !seen && !deletes[c.Key] {
			order = append(order, c.Key)
		}
		switch c.Op {
		case kvstore.OpSAdd:
			members[c.Key] = append(members[c.Key], c.Member)
		case kvstore.OpDel:
			deletes[c.Key] = true
		}
	}

	items := make([]types.TransactWriteItem, 0, len(order))
	for _, key := range order {
		// A DEL anywhere in the batch wins; callers never mix both on one key.
		if deletes[key] {
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{TableName: aws.String(table), Key: keyOf(key)},
			})
			continue
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(table),
				Key:                 keyOf(key),
				UpdateExpression:    aws.String("ADD #members :members SET #kind = :kind"),
				ConditionExpression: aws.String(kindGuard),
				ExpressionAttributeNames: map[string]string{
					"#key":     attrKey,
					"#kind":    attrKind,
					"#members": attrMembers,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":members": &types.AttributeValueMemberSS{Value: members[key]},
					":kind":    &types.AttributeValueMemberS{Value: kindSet},
				},
			},
		})
	}
	return items
}
