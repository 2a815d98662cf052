/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvstore

import (
	"context"
	"fmt"
)

// Store is the Redis-like command surface the adapter translates model operations into.
type Store interface {
	// Incr atomically increments the integer at key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// HSet merges fields into the hash at key, creating it when absent.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// HGetAll returns every field of the hash at key; a missing key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	Exists(ctx context.Context, key string) (bool, error)

	Del(ctx context.Context, key string) error

	SMembers(ctx context.Context, key string) ([]string, error)

	// SInter returns the members present in every set.
	SInter(ctx context.Context, keys ...string) ([]string, error)

	// Keys returns the keys matching a glob-style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Exec runs cmds as one atomic batch and returns one reply per command.
	Exec(ctx context.Context, cmds []Command) ([]Reply, error)

	Close() error
}

// Op is a command that can be batched with Exec.
type Op int

const (
	OpSAdd Op = iota
	OpDel
	OpHGetAll
)

func (o Op) String() string {
	switch o {
	case OpSAdd:
		return "sadd"
	case OpDel:
		return "del"
	case OpHGetAll:
		return "hgetall"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one entry of an atomic batch.
type Command struct {
	Op     Op
	Key    string
	Member string // OpSAdd only
}

// Reply is the result of one batched command. Hash is set for OpHGetAll.
type Reply struct {
	Hash map[string]string
}

// SAdd builds a batched set-add command.
func SAdd(key, member string) Command {
	return Command{Op: OpSAdd, Key: key, Member: member}
}

// Del builds a batched delete command.
func Del(key string) Command {
	return Command{Op: OpDel, Key: key}
}

// HGetAll builds a batched hash read.
func HGetAll(key string) Command {
	return Command{Op: OpHGetAll, Key: key}
}

// IsRead reports whether the command only reads.
func (c Command) IsRead() bool {
	return c.Op == OpHGetAll
}
