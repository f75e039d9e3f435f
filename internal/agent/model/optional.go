package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// enum is implemented by the closed string sets stored in an Opt.
type enum interface {
	~string
	Valid() bool
}

// Opt is an optional categorical value. It is absent until set; on the wire
// an absent value is the empty string so persisted documents stay compatible
// with `"budgetStyle": ""`.
type Opt[T enum] struct {
	value T
	set   bool
}

// Some returns a present Opt, or an absent one for the zero value.
func Some[T enum](v T) Opt[T] {
	if v == "" {
		return Opt[T]{}
	}
	return Opt[T]{value: v, set: true}
}

func (o Opt[T]) Get() (T, bool) { return o.value, o.set }

func (o Opt[T]) IsSet() bool { return o.set }

// Is reports whether the value is present and equal to v.
func (o Opt[T]) Is(v T) bool { return o.set && o.value == v }

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

func (o *Opt[T]) Set(v T) { *o = Some(v) }

func (o *Opt[T]) Clear() { *o = Opt[T]{} }

// Valid reports whether a present value belongs to its enum.
func (o Opt[T]) Valid() bool { return !o.set || o.value.Valid() }

// Validate rejects a present value outside its enum.
func (o Opt[T]) Validate() error {
	if !o.Valid() {
		return fmt.Errorf("unknown value %q", string(o.value))
	}
	return nil
}

func (o Opt[T]) String() string { return string(o.value) }

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(o.value))
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Clear()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: optional enum: %v", ErrValidation, err)
	}
	v := Some(T(s))
	if !v.Valid() {
		return fmt.Errorf("%w: unknown value %q", ErrValidation, s)
	}
	*o = v
	return nil
}
