// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

// Package luajson bridges [luatable.Value] trees and the JSON data model
// used by github.com/go-json-experiment/json, so that a decoded table can
// be marshaled as JSON and a JSON document can be re-encoded as Lua source.
//
// JSON has no notion of a map with non-string keys, so a [luatable.Map]
// with [luatable.KindNumber] keys is rendered as a JSON object whose
// member names are the canonical decimal text of those numbers; the
// reverse conversion recognizes object keys that parse back to the exact
// same number and restores them as Number keys, leaving any other key as
// a String key.
package luajson

import (
	"fmt"
	"strconv"

	"github.com/tarmylan/luatable"
)

// ToJSON converts v into a plain Go value tree (nil, bool, float64,
// string, []any, map[string]any) suitable for marshaling with
// github.com/go-json-experiment/json or the standard encoding/json
// package. ToJSON fails if v (or a value nested within it) is not one of
// the six kinds in the value model.
func ToJSON(v luatable.Value) (any, error) {
	switch v.Kind() {
	case luatable.KindNil:
		return nil, nil
	case luatable.KindBool:
		return v.Bool(), nil
	case luatable.KindNumber:
		return v.Number(), nil
	case luatable.KindString:
		return v.String(), nil
	case luatable.KindSequence:
		elems := v.Sequence()
		out := make([]any, len(elems))
		for i, elem := range elems {
			converted, err := ToJSON(elem)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case luatable.KindMap:
		out := make(map[string]any, v.Map().Len())
		var rangeErr error
		v.Map().Range(func(key, value luatable.Value) bool {
			k, err := jsonKey(key)
			if err != nil {
				rangeErr = err
				return false
			}
			converted, err := ToJSON(value)
			if err != nil {
				rangeErr = err
				return false
			}
			out[k] = converted
			return true
		})
		if rangeErr != nil {
			return nil, rangeErr
		}
		return out, nil
	default:
		return nil, fmt.Errorf("luajson: unsupported value kind %v", v.Kind())
	}
}

// jsonKey renders a Map key (Number or String, per the value model's
// invariant) as a JSON object member name.
func jsonKey(key luatable.Value) (string, error) {
	switch key.Kind() {
	case luatable.KindString:
		return key.String(), nil
	case luatable.KindNumber:
		return strconv.FormatFloat(key.Number(), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("luajson: unsupported map key kind %v", key.Kind())
	}
}

// FromJSON converts a plain Go value tree, as produced by unmarshaling
// JSON with github.com/go-json-experiment/json or encoding/json (with
// numbers as float64, so not with encoding/json's UseNumber), into a
// [luatable.Value]. An object
// member name that round-trips exactly through [strconv.ParseFloat] and
// back becomes a Number key; every other member name becomes a String
// key. FromJSON fails if data holds a type outside JSON's own model
// (nil, bool, float64, string, []any, map[string]any).
func FromJSON(data any) (luatable.Value, error) {
	switch x := data.(type) {
	case nil:
		return luatable.Nil, nil
	case bool:
		return luatable.Bool(x), nil
	case float64:
		return luatable.Number(x), nil
	case string:
		return luatable.String(x), nil
	case []any:
		elems := make([]luatable.Value, len(x))
		for i, elem := range x {
			converted, err := FromJSON(elem)
			if err != nil {
				return luatable.Value{}, err
			}
			elems[i] = converted
		}
		return luatable.Sequence(elems), nil
	case map[string]any:
		m := luatable.NewMap()
		for k, elem := range x {
			converted, err := FromJSON(elem)
			if err != nil {
				return luatable.Value{}, err
			}
			m.Set(keyForJSONMember(k), converted)
		}
		return luatable.MapValue(m), nil
	default:
		return luatable.Value{}, fmt.Errorf("luajson: unsupported JSON type %T", data)
	}
}

// keyForJSONMember recovers the Map key a JSON object member name most
// likely came from: a Number if the name is exactly the canonical
// decimal text of some float64, otherwise a String.
func keyForJSONMember(member string) luatable.Value {
	n, err := strconv.ParseFloat(member, 64)
	if err != nil {
		return luatable.String(member)
	}
	if strconv.FormatFloat(n, 'g', -1, 64) != member {
		return luatable.String(member)
	}
	return luatable.Number(n)
}
