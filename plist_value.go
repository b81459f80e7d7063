package strtables

import (
	"fmt"
	"sort"
)

// ValueKind is the tag of a decoded property list Value.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindString
	KindDict
	KindArray
)

// Value is a property list node decoded into an explicit variant.
type Value struct {
	kind ValueKind
	str  string
	dict map[string]Value
	list []Value
	raw  any
}

// StringValue builds a string node.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// DictValue builds a dictionary node.
func DictValue(entries map[string]Value) Value {
	return Value{kind: KindDict, dict: entries}
}

// ValueOf converts the output of a property list decoder.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return StringValue(x)
	case map[string]any:
		dict := make(map[string]Value, len(x))
		for key, item := range x {
			dict[key] = ValueOf(item)
		}
		return DictValue(dict)
	case []any:
		list := make([]Value, len(x))
		for i, item := range x {
			list[i] = ValueOf(item)
		}
		return Value{kind: KindArray, list: list}
	default:
		return Value{kind: KindOther, raw: v}
	}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// AsString returns the string payload when the node is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Lookup returns a child of a dictionary node.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	child, ok := v.dict[key]
	return child, ok
}

// LookupString returns a string child of a dictionary node.
func (v Value) LookupString(key string) (string, bool) {
	child, ok := v.Lookup(key)
	if !ok {
		return "", false
	}
	return child.AsString()
}

// Keys returns the sorted keys of a dictionary node.
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	keys := make([]string, 0, len(v.dict))
	for key := range v.dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders the node for diagnostics.
func (v Value) Describe() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindDict:
		return fmt.Sprintf("dictionary(%d keys)", len(v.dict))
	case KindArray:
		return fmt.Sprintf("array(%d items)", len(v.list))
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}
