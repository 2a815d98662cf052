/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
)

// Options holds the connection parameters. They are passed to go-redis unchanged.
type Options struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Addr returns host:port, defaulting to localhost:6379.
func (o Options) Addr() string {
	host, port := o.Host, o.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Store implements kvstore.Store on top of a go-redis client.
type Store struct {
	client goredis.UniversalClient
}

// New wraps an existing client. The caller keeps ownership of its configuration;
// Close closes it.
func New(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Connect creates a client from opts and pings the server.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr(),
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, kverrors.NewConnectionError("redis", err)
	}
	return New(client), nil
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	return s.client.HSet(ctx, key, args...).Err()
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}

func (s *Store) SInter(ctx context.Context, keys ...string) ([]string, error) {
	return s.client.SInter(ctx, keys...).Result()
}

func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.client.Keys(ctx, pattern).Result()
}

// Exec runs cmds inside MULTI/EXEC.
func (s *Store) Exec(ctx context.Context, cmds []kvstore.Command) ([]kvstore.Reply, error) {
	if len(cmds) == 0 {
		return nil, nil
	}

	results, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, c := range cmds {
			switch c.Op {
			case kvstore.OpSAdd:
				pipe.SAdd(ctx, c.Key, c.Member)
			case kvstore.OpDel:
				pipe.Del(ctx, c.Key)
			case kvstore.OpHGetAll:
				pipe.HGetAll(ctx, c.Key)
			default:
				return fmt.Errorf("unsupported batch command %v", c.Op)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	replies := make([]kvstore.Reply, len(cmds))
	for i, res := range results {
		if hc, ok := res.(*goredis.MapStringStringCmd); ok {
			replies[i].Hash = hc.Val()
		}
	}
	return replies, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ kvstore.Store = (*Store)(nil)
