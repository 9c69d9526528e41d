package domain

import (
	"bytes"
	"encoding/json"
)

type patchState uint8

const (
	patchKeep patchState = iota
	patchClear
	patchSet
)

// Patch is a partial-update field with three explicit states. The zero value leaves the
// field untouched, Clear resets it, and Set replaces it.
//
// In JSON an absent key decodes to Keep, a null to Clear and any other value to Set.
type Patch[T any] struct {
	state patchState
	value T
}

func Keep[T any]() Patch[T] { return Patch[T]{} }

func Clear[T any]() Patch[T] { return Patch[T]{state: patchClear} }

func Set[T any](v T) Patch[T] { return Patch[T]{state: patchSet, value: v} }

func (p Patch[T]) IsKeep() bool  { return p.state == patchKeep }
func (p Patch[T]) IsClear() bool { return p.state == patchClear }
func (p Patch[T]) IsSet() bool   { return p.state == patchSet }

// Value returns the Set value; for other states it is the zero value.
func (p Patch[T]) Value() T { return p.value }

// Apply resolves the patch against the current value. Clear yields the zero value.
func (p Patch[T]) Apply(current T) T {
	switch p.state {
	case patchSet:
		return p.value
	case patchClear:
		var zero T
		return zero
	}
	return current
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Clear[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Set(v)
	return nil
}

// ApplyNotes resolves a notes patch against an optional string. An empty string clears notes.
func ApplyNotes(p Patch[string], current *string) *string {
	switch {
	case p.IsKeep():
		return current
	case p.IsClear() || p.Value() == "":
		return nil
	}
	v := p.Value()
	return &v
}

// NotesOf turns free text into the optional notes representation.
func NotesOf(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
