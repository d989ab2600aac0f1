package audit

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

const (
	callbackPrefix   = "audit:"
	afterCommit      = "gorm:commit_or_rollback_transaction"
	pendingDeleteKey = "audit:pending_delete"
)

// scopeColumns are copied into entry metadata when a record carries them.
var scopeColumns = []string{"club_id", "church_id"}

var ledgerType = reflect.TypeOf(models.AuditLog{})

// Observer turns gorm lifecycle events of registered models into ledger
// entries. One set of callbacks serves every registered type.
type Observer struct {
	recorder *Recorder
	types    map[reflect.Type]struct{}
}

func NewObserver(recorder *Recorder) *Observer {
	return &Observer{
		recorder: recorder,
		types:    map[reflect.Type]struct{}{},
	}
}

// Observe adds model types to the watch list. The ledger model itself is
// ignored.
func (o *Observer) Observe(values ...any) *Observer {
	for _, m := range values {
		t := reflect.TypeOf(m)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == ledgerType {
			continue
		}
		o.types[t] = struct{}{}
	}
	return o
}

func (o *Observer) Observes(model any) bool {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	_, ok := o.types[t]
	return ok
}

// Register installs the observer callbacks on db.
func (o *Observer) Register(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Query().After("gorm:after_query").
		Register(callbackPrefix+"sync_original", o.afterQuery); err != nil {
		return fmt.Errorf("register audit query callback: %w", err)
	}
	if err := cb.Create().After(afterCommit).
		Register(callbackPrefix+"created", o.afterCreate); err != nil {
		return fmt.Errorf("register audit create callback: %w", err)
	}
	if err := cb.Update().After(afterCommit).
		Register(callbackPrefix+"updated", o.afterUpdate); err != nil {
		return fmt.Errorf("register audit update callback: %w", err)
	}
	if err := cb.Delete().Before("gorm:delete").
		Register(callbackPrefix+"snapshot_before_delete", o.beforeDelete); err != nil {
		return fmt.Errorf("register audit delete snapshot callback: %w", err)
	}
	if err := cb.Delete().After(afterCommit).
		Register(callbackPrefix+"deleted", o.afterDelete); err != nil {
		return fmt.Errorf("register audit delete callback: %w", err)
	}
	return nil
}

func (o *Observer) watching(tx *gorm.DB) bool {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return false
	}
	t := tx.Statement.Schema.ModelType
	if t == ledgerType {
		return false
	}
	_, ok := o.types[t]
	return ok
}

func (o *Observer) records(tx *gorm.DB) []*gormRecord {
	stmt := tx.Statement
	rv := stmt.ReflectValue
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	var out []*gormRecord
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if r := newGormRecord(stmt.Context, stmt.Schema, rv.Index(i)); r != nil {
				out = append(out, r)
			}
		}
	case reflect.Struct:
		if r := newGormRecord(stmt.Context, stmt.Schema, rv); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (o *Observer) afterQuery(tx *gorm.DB) {
	if !o.watching(tx) {
		return
	}
	for _, r := range o.records(tx) {
		r.sync()
	}
}

func (o *Observer) afterCreate(tx *gorm.DB) {
	if !o.watching(tx) {
		return
	}
	for _, r := range o.records(tx) {
		if r.Key() == nil {
			continue
		}
		o.write(tx, ActionCreated, r, datatypes.JSONMap{"after": FullSnapshot(r)})
		r.sync()
	}
}

func (o *Observer) afterUpdate(tx *gorm.DB) {
	if !o.watching(tx) {
		return
	}
	for _, r := range o.records(tx) {
		if r.Key() == nil {
			continue
		}

		if o.restored(r) {
			o.write(tx, ActionRestored, r, datatypes.JSONMap{"after": FullSnapshot(r)})
			r.sync()
			continue
		}

		var columns map[string]bool
		if r.Original() == nil {
			columns = assignedColumns(tx.Statement)
		}
		diff := changeDiff(r, columns)
		if diff.Empty() {
			r.sync()
			continue
		}
		o.write(tx, ActionUpdated, r, datatypes.JSONMap{
			"before": diff.Before,
			"after":  diff.After,
		})
		r.sync()
	}
}

// restored reports a soft-deleted record whose deleted_at was cleared.
func (o *Observer) restored(r *gormRecord) bool {
	col := r.softDeleteColumn()
	if col == "" {
		return false
	}
	original := r.Original()
	if original == nil || original[col] == nil {
		return false
	}
	return r.Attributes()[col] == nil
}

type pendingDelete struct {
	record   *gormRecord
	snapshot map[string]any
	label    *string
	metadata datatypes.JSONMap
}

func (o *Observer) beforeDelete(tx *gorm.DB) {
	if !o.watching(tx) {
		return
	}

	var keyed []*gormRecord
	var untrackedKeys []any
	for _, r := range o.records(tx) {
		switch {
		case r.Key() == nil:
		case r.Original() == nil:
			untrackedKeys = append(untrackedKeys, r.Key())
		default:
			keyed = append(keyed, r)
		}
	}

	// Untracked and key-less deletes are snapshotted from the rows as stored.
	switch {
	case len(untrackedKeys) > 0:
		pk := tx.Statement.Schema.PrioritizedPrimaryField
		keyed = append(keyed, o.load(tx, clause.Where{Exprs: []clause.Expression{
			clause.IN{
				Column: clause.Column{Table: clause.CurrentTable, Name: pk.DBName},
				Values: untrackedKeys,
			},
		}})...)
	case len(keyed) == 0:
		if c, ok := tx.Statement.Clauses["WHERE"]; ok {
			if where, ok := c.Expression.(clause.Where); ok && len(where.Exprs) > 0 {
				keyed = o.load(tx, where)
			}
		}
	}

	var pending []pendingDelete
	for _, r := range keyed {
		attrs := r.Attributes()
		pending = append(pending, pendingDelete{
			record:   r,
			snapshot: redact(attrs),
			label:    labelFrom(attrs),
			metadata: scopeMetadata(attrs),
		})
	}
	if len(pending) > 0 {
		tx.Statement.Settings.Store(pendingDeleteKey, pending)
	}
}

// load reads the rows matching cond on the statement's connection,
// honouring its Unscoped flag.
func (o *Observer) load(tx *gorm.DB, cond clause.Where) []*gormRecord {
	stmt := tx.Statement
	rows := reflect.New(reflect.SliceOf(stmt.Schema.ModelType))

	q := tx.Session(&gorm.Session{NewDB: true, Context: stmt.Context}).
		Model(reflect.New(stmt.Schema.ModelType).Interface()).
		Clauses(cond)
	if stmt.Unscoped {
		q = q.Unscoped()
	}
	if err := q.Find(rows.Interface()).Error; err != nil {
		o.recorder.log.Warn("audit delete snapshot failed",
			zap.Error(err),
			zap.String("entity_type", stmt.Schema.Name),
		)
		return nil
	}

	rv := rows.Elem()
	out := make([]*gormRecord, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if r := newGormRecord(stmt.Context, stmt.Schema, rv.Index(i)); r != nil && r.Key() != nil {
			out = append(out, r)
		}
	}
	return out
}

func (o *Observer) afterDelete(tx *gorm.DB) {
	v, ok := tx.Statement.Settings.LoadAndDelete(pendingDeleteKey)
	if !ok || !o.watching(tx) || tx.RowsAffected == 0 {
		return
	}
	pending, _ := v.([]pendingDelete)

	for _, p := range pending {
		action := ActionDeleted
		if tx.Statement.Unscoped && p.record.softDeleteColumn() != "" {
			action = ActionForceDeleted
		}

		ctx := entryContext(tx)
		entry := newEntry(ctx, action, p.record.EntityType())
		entry.EntityID = toID(p.record.Key())
		entry.EntityLabel = p.label
		entry.Changes = datatypes.JSONMap{"before": p.snapshot}
		entry.Metadata = p.metadata
		o.recorder.Record(ctx, entry)

		p.record.sync()
	}
}

func (o *Observer) write(tx *gorm.DB, action Action, r *gormRecord, changes datatypes.JSONMap) {
	attrs := r.Attributes()
	ctx := entryContext(tx)
	entry := newEntry(ctx, action, r.EntityType())
	entry.EntityID = toID(r.Key())
	entry.EntityLabel = labelFrom(attrs)
	entry.Changes = changes
	entry.Metadata = scopeMetadata(attrs)
	o.recorder.Record(ctx, entry)
}

func scopeMetadata(attrs map[string]any) datatypes.JSONMap {
	var meta datatypes.JSONMap
	for _, col := range scopeColumns {
		v, ok := attrs[col]
		if !ok || v == nil || reflect.ValueOf(v).IsZero() {
			continue
		}
		if meta == nil {
			meta = datatypes.JSONMap{}
		}
		meta[col] = v
	}
	return meta
}

// assignedColumns lists the columns an UPDATE assigns, taken from its
// Select list, map destination or non-zero struct destination. It returns
// nil when every column is written.
func assignedColumns(stmt *gorm.Statement) map[string]bool {
	cols := map[string]bool{}
	add := func(name string) {
		if f := stmt.Schema.LookUpField(name); f != nil && f.DBName != "" {
			cols[f.DBName] = true
			return
		}
		cols[name] = true
	}

	if len(stmt.Selects) > 0 {
		for _, name := range stmt.Selects {
			if name == "*" {
				return nil
			}
			add(name)
		}
		return cols
	}

	switch dest := stmt.Dest.(type) {
	case map[string]any:
		for name := range dest {
			add(name)
		}
		return cols
	case *map[string]any:
		if dest != nil {
			for name := range *dest {
				add(name)
			}
		}
		return cols
	}

	rv := reflect.ValueOf(stmt.Dest)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if rv.Type() == stmt.Schema.ModelType {
		for _, f := range stmt.Schema.Fields {
			if f.DBName == "" || f.PrimaryKey {
				continue
			}
			if _, zero := f.ValueOf(stmt.Context, rv); !zero {
				cols[f.DBName] = true
			}
		}
		return cols
	}
	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		if !sf.IsExported() || rv.Field(i).IsZero() {
			continue
		}
		if f := stmt.Schema.LookUpField(sf.Name); f != nil && f.DBName != "" && !f.PrimaryKey {
			cols[f.DBName] = true
		}
	}
	return cols
}
