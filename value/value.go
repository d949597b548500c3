// Package value implements TypedValue (§3, §4.A): the tagged variant
// every binding, clause and action result is expressed in. A closed
// variant over Null/Boolean/Number/String/Array/Object, but as a single
// discriminated struct rather than an interface, which keeps the
// widening/narrowing rules in one place instead of scattered across a
// type switch at every call site.
package value

import (
	"fmt"
	"time"
)

// Kind discriminates Value's active variant.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindList
	KindMap
	KindDate
	KindDateRange
	KindRecurrence
	KindDistance
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindDate:
		return "date"
	case KindDateRange:
		return "date-range"
	case KindRecurrence:
		return "recurrence"
	case KindDistance:
		return "distance"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is the TypedValue tagged union. The zero Value is Null, a
// first-class member rather than a Go nil pointer.
type Value struct {
	kind Kind

	str string
	i   int64
	f   float64
	b   bool

	list []Value
	m    map[string]Value

	date       time.Time
	dateRange  DateRange
	recurrence Recurrence
	distance   Distance

	opaqueTag    string
	opaqueHandle any
}

// DateRange is the opaque value produced by `Create the <x: date-range>`.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Recurrence is the opaque value produced by `Create the <x: recurrence>`.
type Recurrence struct {
	Pattern string
	Start   time.Time
	Count   int
}

// Distance is a magnitude-with-unit opaque value (e.g. produced by
// Compute's `distance` op).
type Distance struct {
	Meters float64
	Unit   string
}

func Null() Value { return Value{kind: KindNull} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// List copies items into a fresh backing slice so the caller's slice
// remains independently mutable, matching the "read-only once bound"
// posture the context relies on (§4.B).
func List(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t} }

func DateRangeValue(dr DateRange) Value { return Value{kind: KindDateRange, dateRange: dr} }

func RecurrenceValue(r Recurrence) Value { return Value{kind: KindRecurrence, recurrence: r} }

func DistanceValue(d Distance) Value { return Value{kind: KindDistance, distance: d} }

// Opaque wraps a handle the core does not interpret (e.g. an open file
// descriptor, an HTTP response, a compiled regex). tag identifies the
// handle's logical type for diagnostics and for PropertyNotFound errors.
func Opaque(tag string, handle any) Value {
	return Value{kind: KindOpaque, opaqueTag: tag, opaqueHandle: handle}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Raw returns the Go-native representation of v: string, int64, float64,
// bool, []Value, map[string]Value, time.Time, DateRange, Recurrence,
// Distance, the opaque handle, or nil for KindNull. It exists for
// boundary code (JSON marshaling, codec writers) that needs to switch on
// a concrete Go type rather than thread Value through generically.
func (v Value) Raw() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBoolean:
		return v.b
	case KindList:
		return v.list
	case KindMap:
		return v.m
	case KindDate:
		return v.date
	case KindDateRange:
		return v.dateRange
	case KindRecurrence:
		return v.recurrence
	case KindDistance:
		return v.distance
	case KindOpaque:
		return v.opaqueHandle
	default:
		return nil
	}
}

func (v Value) OpaqueTag() string { return v.opaqueTag }

func (v Value) DateRangeValue() (DateRange, bool) {
	if v.kind != KindDateRange {
		return DateRange{}, false
	}
	return v.dateRange, true
}

func (v Value) RecurrenceRaw() (Recurrence, bool) {
	if v.kind != KindRecurrence {
		return Recurrence{}, false
	}
	return v.recurrence, true
}

func (v Value) DistanceRaw() (Distance, bool) {
	if v.kind != KindDistance {
		return Distance{}, false
	}
	return v.distance, true
}

func (v Value) DateRaw() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// Len returns the element count for List/Map/String, or -1 when Kind
// has no natural length. Compute's `length`/`count` op and Reduce's
// `count` both funnel through this.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	case KindString:
		return len([]rune(v.str))
	default:
		return -1
	}
}

func (v Value) String() string {
	return Stringify(v)
}

// Must panics on a failed conversion; reserved for test code and
// constant construction, never for runtime action bodies which must
// return errors instead.
func Must[T any](val T, ok bool) T {
	if !ok {
		panic(fmt.Sprintf("value: conversion failed for %v", val))
	}
	return val
}
