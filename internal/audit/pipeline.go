package audit

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	RecordUnknownSubjects bool
}

// Pipeline holds the three producers sharing one recorder. Build it once at
// startup and hand its parts to whatever fires the events.
type Pipeline struct {
	Recorder   *Recorder
	Changes    *Observer
	Auth       *AuthEvents
	Exceptions *ExceptionReporter
}

func New(store Store, log *zap.Logger, opts Options) *Pipeline {
	rec := NewRecorder(store, log)
	return &Pipeline{
		Recorder:   rec,
		Changes:    NewObserver(rec),
		Auth:       NewAuthEvents(rec),
		Exceptions: NewExceptionReporter(rec, log, RecordUnknownSubjects(opts.RecordUnknownSubjects)),
	}
}

// Observe registers the change observer for the given model types on db.
func (p *Pipeline) Observe(db *gorm.DB, values ...any) error {
	return p.Changes.Observe(values...).Register(db)
}
