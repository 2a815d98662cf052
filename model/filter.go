/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import "regexp"

// Filter is the where clause of a query. It is either a Predicate or a FieldEquals
// mapping; the variant is fixed when the query is built.
type Filter interface {
	isFilter()
}

// Predicate keeps the decoded records for which it returns true.
type Predicate func(Record) bool

func (Predicate) isFilter() {}

// FieldEquals keeps records where every field satisfies its condition.
type FieldEquals map[string]Condition

func (FieldEquals) isFilter() {}

// ConditionKind tells how a condition compares against the stored value.
type ConditionKind int

const (
	// KindEquals compares the encoded expected value with the stored text.
	KindEquals ConditionKind = iota
	// KindMatches applies a regular expression to the stored text.
	KindMatches
)

// Condition is a single field constraint.
type Condition struct {
	kind    ConditionKind
	value   any
	pattern *regexp.Regexp
}

// Equals matches when the stored value equals v once v is encoded with the
// property's declared type. Equals(nil) matches an absent field.
func Equals(v any) Condition {
	return Condition{kind: KindEquals, value: v}
}

// Matches matches when the stored text matches re.
func Matches(re *regexp.Regexp) Condition {
	return Condition{kind: KindMatches, pattern: re}
}

// Kind reports whether c is an equality or a pattern condition.
func (c Condition) Kind() ConditionKind { return c.kind }

// Value is the expected value of an Equals condition.
func (c Condition) Value() any { return c.value }

// Pattern is the expression of a Matches condition.
func (c Condition) Pattern() *regexp.Regexp { return c.pattern }

// IndexValue returns the value to look up in an index set. Only equality on a
// string value can be answered by an index.
func (c Condition) IndexValue() (string, bool) {
	if c.kind != KindEquals {
		return "", false
	}
	s, ok := c.value.(string)
	return s, ok
}

// Query carries the options of an All call.
type Query struct {
	// Where is optional; nil returns every record of the model.
	Where Filter
}

// Empty reports whether the query constrains nothing.
func (q Query) Empty() bool {
	switch w := q.Where.(type) {
	case nil:
		return true
	case FieldEquals:
		return len(w) == 0
	case Predicate:
		return w == nil
	}
	return false
}
