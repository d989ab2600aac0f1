package audit

import (
	"context"
	"database/sql/driver"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Record is the capability the audit helpers need from an observed entity.
type Record interface {
	EntityType() string
	Key() any
	Attributes() map[string]any
	Original() map[string]any
}

// tracker is satisfied by models embedding models.Tracking.
type tracker interface {
	AuditOriginal() map[string]any
	SyncAuditOriginal(map[string]any)
}

var schemaCache sync.Map

// gormRecord adapts any gorm model value to Record through its parsed schema.
type gormRecord struct {
	ctx   context.Context
	sch   *schema.Schema
	value reflect.Value
}

func newGormRecord(ctx context.Context, sch *schema.Schema, value reflect.Value) *gormRecord {
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &gormRecord{ctx: ctx, sch: sch, value: value}
}

func (r *gormRecord) EntityType() string {
	return r.sch.Name
}

func (r *gormRecord) Key() any {
	pk := r.sch.PrioritizedPrimaryField
	if pk == nil {
		return nil
	}
	v, zero := pk.ValueOf(r.ctx, r.value)
	if zero {
		return nil
	}
	return v
}

func (r *gormRecord) Attributes() map[string]any {
	attrs := make(map[string]any, len(r.sch.DBNames))
	for _, field := range r.sch.Fields {
		if field.DBName == "" || !field.Readable {
			continue
		}
		v, _ := field.ValueOf(r.ctx, r.value)
		attrs[field.DBName] = normalize(v)
	}
	return attrs
}

func (r *gormRecord) Original() map[string]any {
	if t, ok := r.tracker(); ok {
		return t.AuditOriginal()
	}
	return nil
}

func (r *gormRecord) sync() {
	if t, ok := r.tracker(); ok {
		t.SyncAuditOriginal(r.Attributes())
	}
}

func (r *gormRecord) tracker() (tracker, bool) {
	if !r.value.CanAddr() {
		return nil, false
	}
	t, ok := r.value.Addr().Interface().(tracker)
	return t, ok
}

func (r *gormRecord) softDeleteColumn() string {
	for _, field := range r.sch.Fields {
		if field.FieldType == reflect.TypeOf(gorm.DeletedAt{}) {
			return field.DBName
		}
	}
	return ""
}

// normalize flattens the values gorm hands back into plain JSON-friendly
// ones: nil pointers and invalid nullable types become nil.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}

	switch t := v.(type) {
	case gorm.DeletedAt:
		if t.Valid {
			return t.Time
		}
		return nil
	case time.Time:
		return t
	case []byte:
		return string(t)
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return nil
		}
		return normalize(dv)
	}
	return v
}

// recordKey returns the primary key of v when v looks like a persisted
// record (a Record or a gorm model struct).
func recordKey(v any) (any, bool) {
	if r, ok := v.(Record); ok {
		return r.Key(), true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	if rv.Type() == reflect.TypeOf(time.Time{}) {
		return nil, false
	}
	sch, err := schema.Parse(v, &schemaCache, schema.NamingStrategy{})
	if err != nil || sch.PrioritizedPrimaryField == nil {
		return nil, false
	}
	key, zero := sch.PrioritizedPrimaryField.ValueOf(context.Background(), rv)
	if zero {
		return nil, true
	}
	return key, true
}

// toID coerces a key or scalar route value into a ledger entity id.
func toID(v any) *uint {
	var n uint64
	switch t := normalize(v).(type) {
	case uint:
		n = uint64(t)
	case uint8:
		n = uint64(t)
	case uint16:
		n = uint64(t)
	case uint32:
		n = uint64(t)
	case uint64:
		n = t
	case int:
		if t < 0 {
			return nil
		}
		n = uint64(t)
	case int32:
		if t < 0 {
			return nil
		}
		n = uint64(t)
	case int64:
		if t < 0 {
			return nil
		}
		n = uint64(t)
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	id := uint(n)
	return &id
}
