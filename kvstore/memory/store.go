/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-process implementation of kvstore.Store for testing
package memory

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/suparena/kvbridge/kvstore"
)

// ErrWrongType mirrors Redis' WRONGTYPE reply.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

type kind int

const (
	kindHash kind = iota
	kindSet
	kindCounter
)

type value struct {
	kind    kind
	hash    map[string]string
	set     map[string]struct{}
	counter int64
}

// Store is an in-memory kvstore.Store. Failures can be injected per command name.
type Store struct {
	mu     sync.RWMutex
	data   map[string]*value
	fail   map[string]error
	closed bool
}

// New creates an empty Store
func New() *Store {
	return &Store{
		data: make(map[string]*value),
		fail: make(map[string]error),
	}
}

// FailOn makes every call of the named command return err. Names are Redis command
// names ("incr", "hset", "hgetall", "exists", "del", "smembers", "sinter", "keys").
// A batch passed to Exec fails when any of its commands' names is registered, or
// when "exec" is.
func (s *Store) FailOn(cmd string, err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[cmd] = err
	return s
}

// Reset clears injected failures.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = make(map[string]error)
}

func (s *Store) failure(cmd string) error {
	if s.closed {
		return errors.New("store closed")
	}
	return s.fail[cmd]
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("incr"); err != nil {
		return 0, err
	}

	v, ok := s.data[key]
	if !ok {
		v = &value{kind: kindCounter}
		s.data[key] = v
	}
	if v.kind != kindCounter {
		return 0, ErrWrongType
	}
	v.counter++
	return v.counter, nil
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("hset"); err != nil {
		return err
	}

	v, ok := s.data[key]
	if !ok {
		v = &value{kind: kindHash, hash: make(map[string]string, len(fields))}
		s.data[key] = v
	}
	if v.kind != kindHash {
		return ErrWrongType
	}
	for f, fv := range fields {
		v.hash[f] = fv
	}
	return nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("hgetall"); err != nil {
		return nil, err
	}
	return s.hgetall(key)
}

func (s *Store) hgetall(key string) (map[string]string, error) {
	v, ok := s.data[key]
	if !ok {
		return map[string]string{}, nil
	}
	if v.kind != kindHash {
		return nil, ErrWrongType
	}
	res := make(map[string]string, len(v.hash))
	for f, fv := range v.hash {
		res[f] = fv
	}
	return res, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("exists"); err != nil {
		return false, err
	}
	_, ok := s.data[key]
	return ok, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("del"); err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("smembers"); err != nil {
		return nil, err
	}
	set, err := s.set(key)
	if err != nil {
		return nil, err
	}
	return sortedMembers(set), nil
}

func (s *Store) SInter(ctx context.Context, keys ...string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("sinter"); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errors.New("wrong number of arguments for 'sinter' command")
	}

	first, err := s.set(keys[0])
	if err != nil {
		return nil, err
	}
	res := make(map[string]struct{}, len(first))
	for m := range first {
		res[m] = struct{}{}
	}
	for _, k := range keys[1:] {
		set, err := s.set(k)
		if err != nil {
			return nil, err
		}
		for m := range res {
			if _, ok := set[m]; !ok {
				delete(res, m)
			}
		}
	}
	return sortedMembers(res), nil
}

func (s *Store) set(key string) (map[string]struct{}, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	if v.kind != kindSet {
		return nil, ErrWrongType
	}
	return v.set, nil
}

func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("keys"); err != nil {
		return nil, err
	}

	g, err := kvstore.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	var keys []string
	for k := range s.data {
		if g.Match(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Exec validates the whole batch before applying any command, so a failed batch
// leaves the store untouched.
func (s *Store) Exec(ctx context.Context, cmds []kvstore.Command) ([]kvstore.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("exec"); err != nil {
		return nil, err
	}
	for _, c := range cmds {
		if err := s.failure(c.Op.String()); err != nil {
			return nil, err
		}
		v, ok := s.data[c.Key]
		if !ok {
			continue
		}
		if (c.Op == kvstore.OpSAdd && v.kind != kindSet) || (c.Op == kvstore.OpHGetAll && v.kind != kindHash) {
			return nil, ErrWrongType
		}
	}

	replies := make([]kvstore.Reply, len(cmds))
	for i, c := range cmds {
		switch c.Op {
		case kvstore.OpSAdd:
			v, ok := s.data[c.Key]
			if !ok {
				v = &value{kind: kindSet, set: make(map[string]struct{})}
				s.data[c.Key] = v
			}
			v.set[c.Member] = struct{}{}
		case kvstore.OpDel:
			delete(s.data, c.Key)
		case kvstore.OpHGetAll:
			replies[i].Hash, _ = s.hgetall(c.Key)
		}
	}
	return replies, nil
}

// Close marks the store closed; later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Helper methods for testing

// Dump returns the stored values rendered as strings (hashes as field maps, sets as
// sorted members, counters as decimal text).
func (s *Store) Dump() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string]any, len(s.data))
	for k, v := range s.data {
		switch v.kind {
		case kindHash:
			h, _ := s.hgetall(k)
			res[k] = h
		case kindSet:
			res[k] = sortedMembers(v.set)
		case kindCounter:
			res[k] = strconv.FormatInt(v.counter, 10)
		}
	}
	return res
}

// Count returns the number of stored keys
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes all data
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*value)
}

func sortedMembers(set map[string]struct{}) []string {
	res := make([]string, 0, len(set))
	for m := range set {
		res = append(res, m)
	}
	sort.Strings(res)
	return res
}

var _ kvstore.Store = (*Store)(nil)
