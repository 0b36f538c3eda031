// This file contains the ParsedValue tagged sum: the result type of the
// textual object parser (txtparser), shared here because both the parser
// and every consumer of parsed trees (gamedata, history) import this
// package.

package save

import "fmt"

// Kind identifies which variant of ParsedValue is populated.
type Kind byte

const (
	// KindNone is an empty or invalid subobject. It is a distinct variant
	// (not simply "absent") because callers must be able to tell "key
	// absent" from "key present with an empty object" (spec.md §3).
	KindNone Kind = iota
	KindScalar
	KindMap
	KindList
)

// ParsedValue is a tagged sum produced by the object parser: a scalar, an
// ordered map, a list, or None.
type ParsedValue struct {
	Kind   Kind
	scalar any // string | int64 | float64 | bool | Date, valid iff Kind == KindScalar
	m      *omap
	list   []*ParsedValue
}

// None is the shared representation of an empty/invalid subobject.
var None = &ParsedValue{Kind: KindNone}

// NewScalar wraps a coerced scalar value (as produced by ParseToken).
func NewScalar(v any) *ParsedValue {
	return &ParsedValue{Kind: KindScalar, scalar: v}
}

// NewMap returns an empty, ready-to-insert-into map ParsedValue.
func NewMap() *ParsedValue {
	return &ParsedValue{Kind: KindMap, m: newOmap()}
}

// NewList wraps a list of already-parsed elements.
func NewList(elems []*ParsedValue) *ParsedValue {
	return &ParsedValue{Kind: KindList, list: elems}
}

// IsNone reports whether v is nil or the None variant; both mean "nothing
// meaningful here" to callers that don't care about the nil-vs-None
// distinction.
func (v *ParsedValue) IsNone() bool {
	return v == nil || v.Kind == KindNone
}

// Scalar returns the raw scalar payload and whether v is actually a scalar.
func (v *ParsedValue) Scalar() (any, bool) {
	if v == nil || v.Kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// String returns the scalar as a string, or "" if v is not a string scalar.
func (v *ParsedValue) String() string {
	if s, ok := v.Scalar(); ok {
		if str, ok := s.(string); ok {
			return str
		}
	}
	return ""
}

// Int returns the scalar as an int, or 0 if v is not an integer scalar.
func (v *ParsedValue) Int() (int, bool) {
	if s, ok := v.Scalar(); ok {
		if n, ok := s.(int64); ok {
			return int(n), true
		}
	}
	return 0, false
}

// Date returns the scalar as a Date, or the zero Date if v is not a date.
func (v *ParsedValue) Date() (Date, bool) {
	if s, ok := v.Scalar(); ok {
		if d, ok := s.(Date); ok {
			return d, true
		}
	}
	return Date{}, false
}

// Bool returns the scalar as a bool.
func (v *ParsedValue) Bool() (bool, bool) {
	if s, ok := v.Scalar(); ok {
		if b, ok := s.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// Get returns the value mapped to key in a Map ParsedValue, or None if v is
// not a map or key is absent.
func (v *ParsedValue) Get(key string) *ParsedValue {
	if v == nil || v.Kind != KindMap {
		return None
	}
	if child, ok := v.m.get(key); ok {
		return child
	}
	return None
}

// Has reports whether key is present in a Map ParsedValue.
func (v *ParsedValue) Has(key string) bool {
	if v == nil || v.Kind != KindMap {
		return false
	}
	_, ok := v.m.get(key)
	return ok
}

// Keys returns the keys of a Map ParsedValue in insertion order.
func (v *ParsedValue) Keys() []string {
	if v == nil || v.Kind != KindMap {
		return nil
	}
	return v.m.keys()
}

// List returns the elements of a List ParsedValue.
func (v *ParsedValue) List() []*ParsedValue {
	if v == nil || v.Kind != KindList {
		return nil
	}
	return v.list
}

// Set inserts value at key, applying the duplicate-key merge rules of
// spec.md §4.2 if key is already present:
//
//   - map + map    -> merge, existing keys win on collision
//   - list + list  -> concatenate
//   - list + other -> append
//   - otherwise    -> replace with a two-element list [existing, new]
func (v *ParsedValue) Set(key string, value *ParsedValue) {
	if v.Kind != KindMap {
		panic(fmt.Sprintf("ParsedValue.Set called on non-map (kind %d)", v.Kind))
	}
	existing, ok := v.m.get(key)
	if !ok {
		v.m.set(key, value)
		return
	}
	v.m.set(key, mergeValues(existing, value))
}

func mergeValues(existing, incoming *ParsedValue) *ParsedValue {
	switch {
	case existing.Kind == KindMap && incoming.Kind == KindMap:
		merged := NewMap()
		for _, k := range incoming.Keys() {
			merged.m.set(k, incoming.Get(k))
		}
		for _, k := range existing.Keys() {
			merged.m.set(k, existing.Get(k)) // existing wins on collision
		}
		return merged
	case existing.Kind == KindList && incoming.Kind == KindList:
		return NewList(append(append([]*ParsedValue{}, existing.list...), incoming.list...))
	case existing.Kind == KindList:
		return NewList(append(append([]*ParsedValue{}, existing.list...), incoming))
	default:
		return NewList([]*ParsedValue{existing, incoming})
	}
}

// omap is an insertion-ordered string-keyed map.
type omap struct {
	keyOrder []string
	values   map[string]*ParsedValue
}

func newOmap() *omap {
	return &omap{values: make(map[string]*ParsedValue)}
}

func (o *omap) get(key string) (*ParsedValue, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *omap) set(key string, value *ParsedValue) {
	if _, ok := o.values[key]; !ok {
		o.keyOrder = append(o.keyOrder, key)
	}
	o.values[key] = value
}

func (o *omap) keys() []string {
	return o.keyOrder
}
