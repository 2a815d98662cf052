/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"testing"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
)

// fakeAPI records calls and serves canned responses.
type fakeAPI struct {
	API // unimplemented methods panic

	scanPages  []*sdk.ScanOutput
	scanInputs []*sdk.ScanInput
	writes     []*sdk.TransactWriteItemsInput
	writeErr   error
	items      map[string]map[string]types.AttributeValue
	conditionF bool
}

func (f *fakeAPI) Scan(ctx context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	cp := *in
	f.scanInputs = append(f.scanInputs, &cp)
	page := f.scanPages[0]
	f.scanPages = f.scanPages[1:]
	return page, nil
}

func (f *fakeAPI) TransactWriteItems(ctx context.Context, in *sdk.TransactWriteItemsInput, _ ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error) {
	f.writes = append(f.writes, in)
	return &sdk.TransactWriteItemsOutput{}, f.writeErr
}

func (f *fakeAPI) TransactGetItems(ctx context.Context, in *sdk.TransactGetItemsInput, _ ...func(*sdk.Options)) (*sdk.TransactGetItemsOutput, error) {
	out := &sdk.TransactGetItemsOutput{}
	for _, it := range in.TransactItems {
		k := it.Get.Key[attrKey].(*types.AttributeValueMemberS).Value
		out.Responses = append(out.Responses, types.ItemResponse{Item: f.items[k]})
	}
	return out, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	k := in.Key[attrKey].(*types.AttributeValueMemberS).Value
	return &sdk.GetItemOutput{Item: f.items[k]}, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	if f.conditionF {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("kind mismatch")}
	}
	return &sdk.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		attrValue: &types.AttributeValueMemberN{Value: "5"},
	}}, nil
}

func strPtr(s string) *string { return &s }

func keyItem(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrKey: &types.AttributeValueMemberS{Value: k}}
}

func hashItem(fields map[string]string) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{attrKind: &types.AttributeValueMemberS{Value: kindHash}}
	for f, v := range fields {
		item[fieldPrefix+f] = &types.AttributeValueMemberS{Value: v}
	}
	return item
}

func setItem(members ...string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKind:    &types.AttributeValueMemberS{Value: kindSet},
		attrMembers: &types.AttributeValueMemberSS{Value: members},
	}
}

func TestBuildHSet(t *testing.T) {
	in := buildHSet("kv", "User:1", map[string]string{"email": "a@x.com"})

	assert.Equal(t, "kv", *in.TableName)
	assert.Equal(t, "SET #kind = :kind, #f0 = :v0", *in.UpdateExpression)
	assert.Equal(t, "f:email", in.ExpressionAttributeNames["#f0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "a@x.com"}, in.ExpressionAttributeValues[":v0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: kindHash}, in.ExpressionAttributeValues[":kind"])
	assert.Equal(t, kindGuard, *in.ConditionExpression)
}

func TestHashFromItem(t *testing.T) {
	h, err := hashFromItem(nil)
	require.NoError(t, err)
	assert.Empty(t, h)

	item := hashItem(map[string]string{"id": "1", "email": "a@x.com"})
	item[attrKey] = &types.AttributeValueMemberS{Value: "User:1"}
	h, err = hashFromItem(item)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "1", "email": "a@x.com"}, h)

	_, err = hashFromItem(setItem("User:1"))
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestMembersAndIntersect(t *testing.T) {
	m, err := membersFromItem(setItem("User:1", "User:2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"User:1", "User:2"}, m)

	_, err = membersFromItem(hashItem(nil))
	assert.ErrorIs(t, err, ErrWrongType)

	assert.Equal(t, []string{"b"}, intersect([]string{"a", "b"}, []string{"b", "c"}))
	assert.Empty(t, intersect([]string{"a"}, nil))
}

func TestSInter(t *testing.T) {
	api := &fakeAPI{items: map[string]map[string]types.AttributeValue{
		"i:User:role:admin": setItem("User:1", "User:2"),
		"i:User:team:red":   setItem("User:2", "User:3"),
	}}
	s := New(api, "kv")

	res, err := s.SInter(context.Background(), "i:User:role:admin", "i:User:team:red")
	require.NoError(t, err)
	assert.Equal(t, []string{"User:2"}, res)

	res, err = s.SInter(context.Background(), "i:User:role:admin", "i:User:team:blue")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestKeysPaginatesAndFilters(t *testing.T) {
	api := &fakeAPI{scanPages: []*sdk.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{keyItem("User:1"), keyItem("User:2")},
			LastEvaluatedKey: keyItem("User:2"),
		},
		{
			Items: []map[string]types.AttributeValue{keyItem("User:3"), keyItem("Users:9")},
		},
	}}
	s := New(api, "kv")

	keys, err := s.Keys(context.Background(), "User:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"User:1", "User:2", "User:3"}, keys)

	require.Len(t, api.scanInputs, 2)
	assert.Equal(t, "begins_with(#key, :prefix)", *api.scanInputs[0].FilterExpression)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "User:"}, api.scanInputs[0].ExpressionAttributeValues[":prefix"])
	assert.Nil(t, api.scanInputs[0].ExclusiveStartKey)
	assert.Equal(t, keyItem("User:2"), api.scanInputs[1].ExclusiveStartKey)
}

func TestBuildKeysScanWithoutPrefix(t *testing.T) {
	in := buildKeysScan("kv", "")
	assert.Nil(t, in.FilterExpression)
	assert.Empty(t, in.ExpressionAttributeValues)
}

func TestBuildWriteItems(t *testing.T) {
	items := buildWriteItems("kv", []kvstore.Command{
		kvstore.SAdd("i:User:email:a", "User:1"),
		kvstore.SAdd("i:User:role:admin", "User:1"),
		kvstore.SAdd("i:User:email:a", "User:2"),
		kvstore.Del("User:9"),
		kvstore.Del("User:9"),
	})
	require.Len(t, items, 3)

	require.NotNil(t, items[0].Update)
	assert.Equal(t, &types.AttributeValueMemberSS{Value: []string{"User:1", "User:2"}},
		items[0].Update.ExpressionAttributeValues[":members"])
	require.NotNil(t, items[1].Update)
	require.NotNil(t, items[2].Delete)
	assert.Equal(t, keyItem("User:9"), items[2].Delete.Key)
}

func TestExecChunksWrites(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, "kv")

	cmds := make([]kvstore.Command, 0, 250)
	for i := 0; i < 250; i++ {
		cmds = append(cmds, kvstore.Del(fmt.Sprintf("User:%d", i)))
	}
	replies, err := s.Exec(context.Background(), cmds)
	require.NoError(t, err)
	assert.Len(t, replies, 250)
	require.Len(t, api.writes, 3)
	assert.Len(t, api.writes[0].TransactItems, 100)
	assert.Len(t, api.writes[2].TransactItems, 50)
}

func TestExecReads(t *testing.T) {
	api := &fakeAPI{items: map[string]map[string]types.AttributeValue{
		"User:1": hashItem(map[string]string{"id": "1"}),
	}}
	s := New(api, "kv")

	replies, err := s.Exec(context.Background(), []kvstore.Command{kvstore.HGetAll("User:1"), kvstore.HGetAll("User:2")})
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "1", replies[0].Hash["id"])
	assert.Empty(t, replies[1].Hash)
}

func TestExecReadOfWrongKindFails(t *testing.T) {
	api := &fakeAPI{items: map[string]map[string]types.AttributeValue{
		"User:1":        hashItem(map[string]string{"id": "1"}),
		"i:User:role:a": setItem("User:1"),
	}}
	s := New(api, "kv")

	_, err := s.Exec(context.Background(), []kvstore.Command{kvstore.HGetAll("User:1"), kvstore.HGetAll("i:User:role:a")})
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestExecRejectsMixedBatch(t *testing.T) {
	s := New(&fakeAPI{}, "kv")
	_, err := s.Exec(context.Background(), []kvstore.Command{kvstore.HGetAll("User:1"), kvstore.Del("User:1")})
	assert.True(t, kverrors.IsValidationError(err))
}

func TestIncr(t *testing.T) {
	s := New(&fakeAPI{}, "kv")
	n, err := s.Incr(context.Background(), "id:User")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	s = New(&fakeAPI{conditionF: true}, "kv")
	_, err = s.Incr(context.Background(), "User:1")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestConnectRequiresTable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Region: "us-east-1"})
	assert.True(t, kverrors.IsValidationError(err))
}
