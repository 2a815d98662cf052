/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import (
	"context"
	"sort"

	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
	"github.com/suparena/kvbridge/model"
	"github.com/suparena/kvbridge/registry"
)

// All returns the records of modelName selected by q. Equality on an indexed field
// with a string value is answered from index sets; everything else is checked
// against the loaded records. Order is whatever the store returns.
func (a *Adapter) All(ctx context.Context, modelName string, q model.Query) ([]model.Record, error) {
	keys, answered, err := a.candidates(ctx, modelName, q)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]kvstore.Command, len(keys))
	for i, k := range keys {
		cmds[i] = kvstore.HGetAll(k)
	}
	replies, err := a.store.Exec(ctx, cmds)
	if err != nil {
		return nil, kverrors.NewReadError("hgetall", ModelPattern(modelName), err)
	}

	where := q.Where
	if q.Empty() {
		where = nil
	}

	var res []model.Record
	for _, reply := range replies {
		raw, ok := reply.Hash[model.IDField]
		if !ok {
			// destroyed, or never carried an id
			continue
		}
		id, err := model.ParseID(raw)
		if err != nil {
			continue
		}
		rec := a.decode(modelName, reply.Hash, id)
		if a.keep(modelName, where, answered, reply.Hash, rec) {
			res = append(res, rec)
		}
	}
	return res, nil
}

// candidates picks the record keys to load and reports which fields the index
// sets already satisfied.
func (a *Adapter) candidates(ctx context.Context, modelName string, q model.Query) ([]string, map[string]bool, error) {
	var sets []string
	answered := make(map[string]bool)

	if where, ok := q.Where.(model.FieldEquals); ok {
		fields := make([]string, 0, len(where))
		for f := range where {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, f := range fields {
			value, ok := where[f].IndexValue()
			if !ok {
				continue
			}
			typ, indexed := a.indexes.Lookup(modelName, f)
			if !indexed {
				continue
			}
			// index keys hold the codec's text, as written by updateIndexes
			encoded, err := registry.Encode(typ, value)
			if err != nil {
				continue
			}
			sets = append(sets, IndexKey(modelName, f, encoded))
			answered[f] = true
		}
	}

	if len(sets) > 0 {
		keys, err := a.store.SInter(ctx, sets...)
		if err != nil {
			return nil, nil, kverrors.NewReadError("sinter", sets[0], err)
		}
		return keys, answered, nil
	}

	pattern := ModelPattern(modelName)
	keys, err := a.store.Keys(ctx, pattern)
	if err != nil {
		return nil, nil, kverrors.NewReadError("keys", pattern, err)
	}
	return keys, answered, nil
}

func (a *Adapter) keep(modelName string, where model.Filter, answered map[string]bool, hash map[string]string, rec model.Record) bool {
	switch w := where.(type) {
	case nil:
		return true
	case model.Predicate:
		return w == nil || w(rec)
	case model.FieldEquals:
		for field, cond := range w {
			if answered[field] {
				continue
			}
			if !a.satisfies(modelName, field, cond, hash) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// satisfies checks one condition against the stored text of field.
func (a *Adapter) satisfies(modelName, field string, cond model.Condition, hash map[string]string) bool {
	stored, present := hash[field]

	switch cond.Kind() {
	case model.KindMatches:
		re := cond.Pattern()
		return present && re != nil && re.MatchString(stored)
	default:
		if cond.Value() == nil {
			return !present
		}
		if !present {
			return false
		}
		expected, err := registry.Encode(a.fieldType(modelName, field), cond.Value())
		if err != nil {
			expected, _ = registry.Encode(model.String, cond.Value())
		}
		return expected == stored
	}
}
