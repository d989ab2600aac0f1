package models

// Observed lists every model whose lifecycle is written to the audit ledger.
// AuditLog must never appear here.
func Observed() []any {
	return []any{
		&Church{},
		&Club{},
		&User{},
		&Member{},
		&Staff{},
		&Event{},
		&ClubClass{},
		&Group{},
		&Application{},
	}
}
