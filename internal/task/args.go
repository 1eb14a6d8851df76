package task

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUndeclaredKey is returned when setting a key the task never declared.
	ErrUndeclaredKey = errors.New("undeclared argument")
	// ErrKindMismatch is returned when a value's kind differs from the declaration.
	ErrKindMismatch = errors.New("argument kind mismatch")
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota + 1
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a resolved argument: a string, a bool or an ordered list of strings.
type Value struct {
	kind Kind
	str  string
	b    bool
	list []string
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue copies items so the caller's slice can be reused.
func ListValue(items []string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Str() string { return v.str }

func (v Value) Bool() bool { return v.b }

func (v Value) List() []string { return append([]string(nil), v.list...) }

// Args is the argument bag handed to a task. Only keys declared by the
// task's Meta can be populated, each with its declared kind.
type Args struct {
	declared map[string]Kind
	values   map[string]Value
}

// NewArgs returns an empty bag accepting the options and positionals key
// declared in meta.
func NewArgs(meta Meta) *Args {
	a := &Args{
		declared: make(map[string]Kind, len(meta.Options)+1),
		values:   make(map[string]Value),
	}
	if meta.Positionals != "" {
		a.declared[meta.Positionals] = KindList
	}
	for _, opt := range meta.Options {
		if opt.Type == Boolean {
			a.declared[opt.Name] = KindBool
		} else {
			a.declared[opt.Name] = KindString
		}
	}
	return a
}

// Set stores v under key.
func (a *Args) Set(key string, v Value) error {
	kind, ok := a.declared[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndeclaredKey, key)
	}
	if kind != v.kind {
		return fmt.Errorf("%w: %s is %s, got %s", ErrKindMismatch, key, kind, v.kind)
	}
	a.values[key] = v
	return nil
}

func (a *Args) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// String returns the string bound under key and whether it was set.
func (a *Args) String(key string) (string, bool) {
	v, ok := a.values[key]
	if !ok || v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Bool returns the bool bound under key; unset keys read as false.
func (a *Args) Bool(key string) bool {
	v, ok := a.values[key]
	return ok && v.kind == KindBool && v.b
}

// Strings returns the list bound under key, or nil.
func (a *Args) Strings(key string) []string {
	v, ok := a.values[key]
	if !ok || v.kind != KindList {
		return nil
	}
	return v.List()
}

// Get returns the raw value bound under key.
func (a *Args) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the populated keys in sorted order.
func (a *Args) Keys() []string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
