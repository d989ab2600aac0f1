package audit

import (
	"reflect"
	"strings"
	"time"
)

const updatedAtColumn = "updated_at"

// sensitiveFields are never written to the ledger, in snapshots or diffs.
var sensitiveFields = map[string]struct{}{
	"password":          {},
	"password_hash":     {},
	"remember_token":    {},
	"session_token":     {},
	"api_token":         {},
	"two_factor_secret": {},
}

func isSensitive(field string) bool {
	_, ok := sensitiveFields[strings.ToLower(field)]
	return ok
}

// Diff holds the changed fields of an update, old values in Before and new
// values in After.
type Diff struct {
	Before map[string]any
	After  map[string]any
}

func (d Diff) Empty() bool {
	return len(d.After) == 0 && len(d.Before) == 0
}

// FullSnapshot returns every persisted attribute of r minus sensitive fields.
func FullSnapshot(r Record) map[string]any {
	return redact(r.Attributes())
}

func redact(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if isSensitive(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// ChangeDiff compares the current attributes of r with the ones it had when
// last loaded or saved. updated_at and sensitive fields never appear.
func ChangeDiff(r Record) Diff {
	return changeDiff(r, nil)
}

// changeDiff restricts the comparison to columns when it is non-nil.
func changeDiff(r Record, columns map[string]bool) Diff {
	current := r.Attributes()
	original := r.Original()

	d := Diff{Before: map[string]any{}, After: map[string]any{}}
	for field, now := range current {
		if field == updatedAtColumn || isSensitive(field) {
			continue
		}
		if columns != nil && !columns[field] {
			continue
		}
		before := original[field]
		if sameValue(before, now) {
			continue
		}
		d.Before[field] = before
		d.After[field] = now
	}
	return d
}

func sameValue(a, b any) bool {
	at, aIsTime := a.(time.Time)
	bt, bIsTime := b.(time.Time)
	if aIsTime && bIsTime {
		return at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}
