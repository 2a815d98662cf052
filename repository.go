/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"

	"github.com/go-openapi/strfmt"
	"github.com/mitchellh/mapstructure"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/model"
)

// Repository stores values of T as records of one model. Fields are mapped by
// their json tags.
type Repository[T any] struct {
	adapter *Adapter
	model   string
}

// NewRepository binds T to modelName, which must be defined on the adapter
// before anything is written.
func NewRepository[T any](a *Adapter, modelName string) *Repository[T] {
	return &Repository[T]{adapter: a, model: modelName}
}

// Model returns the model name.
func (r *Repository[T]) Model() string {
	return r.model
}

// Create stores v under a new id and writes the id back into v.
func (r *Repository[T]) Create(ctx context.Context, v *T) (int64, error) {
	rec, err := toRecord(v)
	if err != nil {
		return 0, err
	}
	id, err := r.adapter.Create(ctx, r.model, rec)
	if id != 0 {
		if derr := fromRecord(model.Record{model.IDField: id}, v); derr != nil && err == nil {
			err = derr
		}
	}
	return id, err
}

// Save writes v under its own id.
func (r *Repository[T]) Save(ctx context.Context, v *T) error {
	rec, err := toRecord(v)
	if err != nil {
		return err
	}
	return r.adapter.Save(ctx, r.model, rec)
}

// UpdateAttributes merges patch into the record with the given id.
func (r *Repository[T]) UpdateAttributes(ctx context.Context, id int64, patch model.Record) error {
	return r.adapter.UpdateAttributes(ctx, r.model, id, patch)
}

// Find returns nil when no record has the id.
func (r *Repository[T]) Find(ctx context.Context, id int64) (*T, error) {
	rec, err := r.adapter.Find(ctx, r.model, id)
	if err != nil || rec == nil {
		return nil, err
	}
	v := new(T)
	if err := fromRecord(rec, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Repository[T]) All(ctx context.Context, q model.Query) ([]T, error) {
	recs, err := r.adapter.All(ctx, r.model, q)
	if err != nil {
		return nil, err
	}
	res := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := fromRecord(rec, &v); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

func (r *Repository[T]) Destroy(ctx context.Context, id int64) error {
	return r.adapter.Destroy(ctx, r.model, id)
}

func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	return r.adapter.Count(ctx, r.model)
}

// toRecord flattens v through its JSON form so that field names follow json tags
// and formatted types such as strfmt.DateTime become their text.
func toRecord[T any](v *T) (model.Record, error) {
	if v == nil {
		return nil, kverrors.NewValidationError("", "nil value")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, kverrors.NewValidationError("", err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rec model.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, kverrors.NewValidationError("", err.Error())
	}
	return rec, nil
}

func fromRecord(rec model.Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDateTimeHook,
			mapstructure.StringToTimeHookFunc(strfmt.RFC3339Millis),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return kverrors.NewValidationError("", err.Error())
	}
	return nil
}

var dateTimeType = reflect.TypeOf(strfmt.DateTime{})

func stringToDateTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != dateTimeType {
		return data, nil
	}
	return strfmt.ParseDateTime(data.(string))
}
