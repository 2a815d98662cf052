/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/kvbridge/model"
)

// Codec converts a property value to the text stored in a hash field or index key
// and back.
type Codec struct {
	Encode func(v any) (string, error)
	Decode func(s string) (any, error)
}

var (
	typeRegistry = make(map[model.PropertyType]Codec)
	typeMu       sync.RWMutex
)

func init() {
	RegisterType(model.String, Codec{Encode: encodeString, Decode: decodeString})
	RegisterType(model.Number, Codec{Encode: encodeNumber, Decode: decodeNumber})
	RegisterType(model.Boolean, Codec{Encode: encodeBoolean, Decode: decodeBoolean})
	RegisterType(model.Date, Codec{Encode: encodeDate, Decode: decodeDate})
	RegisterType(model.JSON, Codec{Encode: encodeJSON, Decode: decodeJSON})
}

// RegisterType registers the codec for a property type.
// If a codec is already registered for the type, it panics to prevent accidental overrides.
func RegisterType(t model.PropertyType, c Codec) {
	typeMu.Lock()
	defer typeMu.Unlock()
	if _, exists := typeRegistry[t]; exists {
		panic(fmt.Sprintf("type registry: codec for type %q already registered", t))
	}
	typeRegistry[t] = c
}

// GetCodec returns the codec registered for t. An empty type means String.
func GetCodec(t model.PropertyType) (Codec, error) {
	if t == "" {
		t = model.String
	}
	typeMu.RLock()
	defer typeMu.RUnlock()
	c, ok := typeRegistry[t]
	if !ok {
		return Codec{}, fmt.Errorf("type registry: no codec registered for type %q", t)
	}
	return c, nil
}

// Encode converts v to its stored text using the codec for t.
func Encode(t model.PropertyType, v any) (string, error) {
	c, err := GetCodec(t)
	if err != nil {
		return "", err
	}
	return c.Encode(v)
}

// Decode converts stored text back to a value using the codec for t.
func Decode(t model.PropertyType, s string) (any, error) {
	c, err := GetCodec(t)
	if err != nil {
		return nil, err
	}
	return c.Decode(s)
}

func encodeString(v any) (string, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case []byte:
		return string(tv), nil
	case fmt.Stringer:
		return tv.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func decodeString(s string) (any, error) {
	return s, nil
}

func encodeNumber(v any) (string, error) {
	switch tv := v.(type) {
	case int:
		return strconv.FormatInt(int64(tv), 10), nil
	case int8:
		return strconv.FormatInt(int64(tv), 10), nil
	case int16:
		return strconv.FormatInt(int64(tv), 10), nil
	case int32:
		return strconv.FormatInt(int64(tv), 10), nil
	case int64:
		return strconv.FormatInt(tv, 10), nil
	case uint:
		return strconv.FormatUint(uint64(tv), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(tv), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(tv), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(tv), 10), nil
	case uint64:
		return strconv.FormatUint(tv, 10), nil
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64), nil
	case json.Number:
		return tv.String(), nil
	case string:
		if _, err := strconv.ParseFloat(tv, 64); err != nil {
			return "", fmt.Errorf("%q is not a number", tv)
		}
		return tv, nil
	default:
		return "", fmt.Errorf("cannot encode %T as Number", v)
	}
}

func decodeNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func encodeBoolean(v any) (string, error) {
	switch tv := v.(type) {
	case bool:
		return strconv.FormatBool(tv), nil
	case string:
		b, err := strconv.ParseBool(tv)
		if err != nil {
			return "", fmt.Errorf("%q is not a boolean", tv)
		}
		return strconv.FormatBool(b), nil
	default:
		return "", fmt.Errorf("cannot encode %T as Boolean", v)
	}
}

func decodeBoolean(s string) (any, error) {
	return strconv.ParseBool(s)
}

func encodeDate(v any) (string, error) {
	switch tv := v.(type) {
	case strfmt.DateTime:
		return tv.String(), nil
	case *strfmt.DateTime:
		if tv == nil {
			return "", fmt.Errorf("nil date")
		}
		return tv.String(), nil
	case time.Time:
		return strfmt.DateTime(tv).String(), nil
	case string:
		dt, err := strfmt.ParseDateTime(tv)
		if err != nil {
			return "", err
		}
		return dt.String(), nil
	default:
		return "", fmt.Errorf("cannot encode %T as Date", v)
	}
}

func decodeDate(s string) (any, error) {
	return strfmt.ParseDateTime(s)
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}
