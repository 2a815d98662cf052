/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	s, err := Connect(ctx, Options{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	mr.RequireAuth("secret")
	_, err = Connect(ctx, Options{Host: mr.Host(), Port: port, Password: "wrong"})
	assert.True(t, kverrors.IsConnectionError(err), "got %v", err)

	s, err = Connect(ctx, Options{Host: mr.Host(), Port: port, Password: "secret"})
	require.NoError(t, err)
	s.Close()
}

func TestConnectUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	_, err := Connect(context.Background(), Options{Host: "127.0.0.1", Port: port, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, kverrors.IsConnectionError(err))
}

func TestOptionsAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Options{}.Addr())
	assert.Equal(t, "cache:7000", Options{Host: "cache", Port: 7000}.Addr())
}

func TestKeyLayoutIsVisibleToRedis(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	id, err := s.Incr(ctx, "id:User")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, s.HSet(ctx, "User:1", map[string]string{"id": "1", "email": "a@x.com"}))
	_, err = s.Exec(ctx, []kvstore.Command{kvstore.SAdd("i:User:email:a@x.com", "User:1")})
	require.NoError(t, err)

	got, err := mr.Get("id:User")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, "a@x.com", mr.HGet("User:1", "email"))
	members, err := mr.Members("i:User:email:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"User:1"}, members)
}

func TestHashAndSetCommands(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.HSet(ctx, "User:1", map[string]string{"id": "1", "email": "a@x.com"}))
	require.NoError(t, s.HSet(ctx, "User:1", map[string]string{"email": "c@x.com"}))
	require.NoError(t, s.HSet(ctx, "User:1", nil))

	h, err := s.HGetAll(ctx, "User:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "1", "email": "c@x.com"}, h)

	ok, err := s.Exists(ctx, "User:1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Exec(ctx, []kvstore.Command{
		kvstore.SAdd("i:User:role:admin", "User:1"),
		kvstore.SAdd("i:User:role:admin", "User:2"),
		kvstore.SAdd("i:User:team:red", "User:2"),
	})
	require.NoError(t, err)

	inter, err := s.SInter(ctx, "i:User:role:admin", "i:User:team:red")
	require.NoError(t, err)
	assert.Equal(t, []string{"User:2"}, inter)

	members, err := s.SMembers(ctx, "i:User:role:admin")
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"User:1", "User:2"}, members)

	require.NoError(t, s.Del(ctx, "User:1"))
	ok, err = s.Exists(ctx, "User:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecBatches(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.HSet(ctx, "User:1", map[string]string{"id": "1"}))
	require.NoError(t, s.HSet(ctx, "User:2", map[string]string{"id": "2"}))
	_, err := s.Incr(ctx, "id:User")
	require.NoError(t, err)

	keys, err := s.Keys(ctx, "User:*")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"User:1", "User:2"}, keys)

	replies, err := s.Exec(ctx, []kvstore.Command{kvstore.HGetAll("User:1"), kvstore.HGetAll("User:3")})
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "1", replies[0].Hash["id"])
	assert.Empty(t, replies[1].Hash)

	_, err = s.Exec(ctx, []kvstore.Command{kvstore.Del("User:1"), kvstore.Del("User:2")})
	require.NoError(t, err)
	keys, err = s.Keys(ctx, "User:*")
	require.NoError(t, err)
	assert.Empty(t, keys)

	replies, err = s.Exec(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, replies)
}

func TestExecSurfacesErrors(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	require.NoError(t, s.HSet(ctx, "User:1", map[string]string{"id": "1"}))
	_, err := s.Exec(ctx, []kvstore.Command{kvstore.SAdd("User:1", "User:1")})
	assert.Error(t, err, "SADD against a hash must fail")

	mr.SetError("server is going away")
	_, err = s.Exec(ctx, []kvstore.Command{kvstore.SAdd("i:User:email:a", "User:1")})
	assert.Error(t, err)
}
