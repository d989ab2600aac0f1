package models

// Tracking remembers the persisted attributes of a record as of its last
// load or save. Embed it in any model the audit observer watches.
type Tracking struct {
	original map[string]any
}

func (t *Tracking) AuditOriginal() map[string]any {
	return t.original
}

func (t *Tracking) SyncAuditOriginal(attrs map[string]any) {
	t.original = attrs
}
