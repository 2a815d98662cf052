/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import (
	"context"
	"sort"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/suparena/kvbridge/config"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
	"github.com/suparena/kvbridge/model"
	"github.com/suparena/kvbridge/registry"
)

// Adapter translates model operations into kvstore commands. It is safe for
// concurrent use once every model has been defined.
type Adapter struct {
	store   kvstore.Store
	indexes *registry.IndexRegistry
	log     logr.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(a *Adapter) {
		a.log = l
	}
}

// WithRegistry shares an index registry between adapters.
func WithRegistry(r *registry.IndexRegistry) Option {
	return func(a *Adapter) {
		a.indexes = r
	}
}

// New creates an adapter over an open store.
func New(store kvstore.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:   store,
		indexes: registry.NewIndexRegistry(),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Connect opens the store selected by cfg and wraps it in an adapter.
func Connect(ctx context.Context, cfg *config.Config, opts ...Option) (*Adapter, error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	a := New(store, opts...)
	a.log.V(1).Info("connected", "backend", cfg.Backend)
	return a, nil
}

// Define registers a model and the properties it indexes. Defining a model again
// replaces its previous definition.
func (a *Adapter) Define(desc model.Descriptor) {
	a.indexes.Register(desc.Name, desc.Properties)
	a.log.V(1).Info("model defined", "model", desc.Name, "indexes", len(a.indexes.Indexed(desc.Name)))
}

// DefineForeignKey indexes a relation key of modelName as a Number.
func (a *Adapter) DefineForeignKey(modelName, key string) (model.PropertyType, error) {
	return a.indexes.RegisterForeignKey(modelName, key), nil
}

// Registry exposes the adapter's index registry.
func (a *Adapter) Registry() *registry.IndexRegistry {
	return a.indexes
}

// Create allocates the next id for modelName, stores it in rec["id"] and saves the
// record. The id is returned even when the save fails afterwards.
func (a *Adapter) Create(ctx context.Context, modelName string, rec model.Record) (int64, error) {
	if !a.indexes.Known(modelName) {
		return 0, kverrors.NewNotFoundError("model", modelName)
	}
	id, err := a.store.Incr(ctx, CounterKey(modelName))
	if err != nil {
		return 0, kverrors.NewWriteError("incr", CounterKey(modelName), err)
	}
	rec[model.IDField] = id
	return id, a.Save(ctx, modelName, rec)
}

// Save writes every non-nil field of rec, which must carry an id, then adds the
// record to the index sets of its indexed fields. An index failure leaves the
// record written.
func (a *Adapter) Save(ctx context.Context, modelName string, rec model.Record) error {
	if !a.indexes.Known(modelName) {
		return kverrors.NewNotFoundError("model", modelName)
	}
	id, ok := rec.ID()
	if !ok {
		return kverrors.NewValidationError(model.IDField, "save requires a record id")
	}
	return a.write(ctx, modelName, id, rec)
}

// UpdateAttributes merges patch into the stored record and indexes the patched
// fields. Index sets holding the previous values keep their members.
func (a *Adapter) UpdateAttributes(ctx context.Context, modelName string, id int64, patch model.Record) error {
	if !a.indexes.Known(modelName) {
		return kverrors.NewNotFoundError("model", modelName)
	}
	if len(patch) == 0 {
		return nil
	}
	if v, ok := patch[model.IDField]; ok && v != nil {
		if pid, err := model.ParseID(v); err != nil || pid != id {
			return kverrors.NewValidationError(model.IDField, "patch id does not match "+strconv.FormatInt(id, 10))
		}
	}
	rec := patch.Clone()
	rec[model.IDField] = id
	return a.write(ctx, modelName, id, rec)
}

func (a *Adapter) write(ctx context.Context, modelName string, id int64, rec model.Record) error {
	key := RecordKey(modelName, id)
	fields, err := a.encode(modelName, rec)
	if err != nil {
		return err
	}
	if err := a.store.HSet(ctx, key, fields); err != nil {
		return kverrors.NewWriteError("hset", key, err)
	}
	return a.updateIndexes(ctx, modelName, key, rec)
}

// encode converts the non-nil fields of rec to their stored text.
func (a *Adapter) encode(modelName string, rec model.Record) (map[string]string, error) {
	fields := make(map[string]string, len(rec))
	for name, v := range rec {
		if v == nil {
			continue
		}
		typ := a.fieldType(modelName, name)
		s, err := registry.Encode(typ, v)
		if err != nil {
			return nil, kverrors.NewValidationError(name, err.Error())
		}
		fields[name] = s
	}
	return fields, nil
}

func (a *Adapter) fieldType(modelName, field string) model.PropertyType {
	if field == model.IDField {
		return model.Number
	}
	if t, ok := a.indexes.FieldType(modelName, field); ok {
		return t
	}
	return model.String
}

// updateIndexes adds key to the index set of every indexed field of rec in one
// atomic batch.
func (a *Adapter) updateIndexes(ctx context.Context, modelName, key string, rec model.Record) error {
	indexed := a.indexes.Indexed(modelName)

	names := make([]string, 0, len(indexed))
	for name := range indexed {
		if v, ok := rec[name]; ok && v != nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	cmds := make([]kvstore.Command, 0, len(names))
	sets := make([]string, 0, len(names))
	for _, name := range names {
		value, err := registry.Encode(indexed[name], rec[name])
		if err != nil {
			return kverrors.NewIndexUpdateError(key, sets, err)
		}
		set := IndexKey(modelName, name, value)
		sets = append(sets, set)
		cmds = append(cmds, kvstore.SAdd(set, key))
	}

	if _, err := a.store.Exec(ctx, cmds); err != nil {
		return kverrors.NewIndexUpdateError(key, sets, err)
	}
	a.log.V(1).Info("indexes updated", "key", key, "sets", sets)
	return nil
}

// Exists reports whether the record key is present.
func (a *Adapter) Exists(ctx context.Context, modelName string, id int64) (bool, error) {
	key := RecordKey(modelName, id)
	ok, err := a.store.Exists(ctx, key)
	if err != nil {
		return false, kverrors.NewReadError("exists", key, err)
	}
	return ok, nil
}

// Find loads one record. It returns nil when the stored hash has no id field,
// whether or not the key exists.
func (a *Adapter) Find(ctx context.Context, modelName string, id int64) (model.Record, error) {
	key := RecordKey(modelName, id)
	hash, err := a.store.HGetAll(ctx, key)
	if err != nil {
		return nil, kverrors.NewReadError("hgetall", key, err)
	}
	if _, ok := hash[model.IDField]; !ok {
		return nil, nil
	}
	return a.decode(modelName, hash, id), nil
}

// decode converts a stored hash back into a record. Values that do not decode
// with their declared type are kept as stored.
func (a *Adapter) decode(modelName string, hash map[string]string, id int64) model.Record {
	rec := make(model.Record, len(hash))
	for name, s := range hash {
		if name == model.IDField {
			continue
		}
		v, err := registry.Decode(a.fieldType(modelName, name), s)
		if err != nil {
			a.log.V(2).Info("keeping undecodable value", "model", modelName, "field", name, "error", err.Error())
			rec[name] = s
			continue
		}
		rec[name] = v
	}
	rec[model.IDField] = id
	return rec
}

// Count returns the number of record keys of modelName, whatever their content.
func (a *Adapter) Count(ctx context.Context, modelName string) (int, error) {
	pattern := ModelPattern(modelName)
	keys, err := a.store.Keys(ctx, pattern)
	if err != nil {
		return 0, kverrors.NewReadError("keys", pattern, err)
	}
	return len(keys), nil
}

// Destroy deletes the record key. Index sets still reference it.
func (a *Adapter) Destroy(ctx context.Context, modelName string, id int64) error {
	key := RecordKey(modelName, id)
	if err := a.store.Del(ctx, key); err != nil {
		return kverrors.NewWriteError("del", key, err)
	}
	return nil
}

// DestroyAll deletes every record key of modelName in one atomic batch. Counters
// and index sets are left in place.
func (a *Adapter) DestroyAll(ctx context.Context, modelName string) error {
	pattern := ModelPattern(modelName)
	keys, err := a.store.Keys(ctx, pattern)
	if err != nil {
		return kverrors.NewReadError("keys", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}

	cmds := make([]kvstore.Command, len(keys))
	for i, k := range keys {
		cmds[i] = kvstore.Del(k)
	}
	if _, err := a.store.Exec(ctx, cmds); err != nil {
		return kverrors.NewWriteError("del", pattern, err)
	}
	a.log.V(1).Info("records destroyed", "model", modelName, "count", len(keys))
	return nil
}

// IndexMembers returns the raw members of the index set for field == value.
func (a *Adapter) IndexMembers(ctx context.Context, modelName, field string, value any) ([]string, error) {
	typ, ok := a.indexes.Lookup(modelName, field)
	if !ok {
		typ = a.fieldType(modelName, field)
	}
	encoded, err := registry.Encode(typ, value)
	if err != nil {
		return nil, kverrors.NewValidationError(field, err.Error())
	}
	key := IndexKey(modelName, field, encoded)
	members, err := a.store.SMembers(ctx, key)
	if err != nil {
		return nil, kverrors.NewReadError("smembers", key, err)
	}
	return members, nil
}

// Disconnect closes the underlying store.
func (a *Adapter) Disconnect() error {
	return a.store.Close()
}
