package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/httperr"
)

const unknownSubject = "Unknown"

// Param is one resolved route parameter. Value is either the raw path value
// or a record bound to it.
type Param struct {
	Name  string
	Value any
}

// Failure is an unhandled error surfaced at the top-level error boundary.
// Request is nil for work that did not come from HTTP.
type Failure struct {
	Err     error
	Request *http.Request
	Route   string
	Params  []Param
}

// routeParamSubjects maps route parameter names to entity types, most
// specific first so nested routes resolve to the innermost resource.
var routeParamSubjects = []struct {
	param      string
	entityType string
}{
	{"member", "Member"},
	{"staff", "Staff"},
	{"event", "Event"},
	{"class", "ClubClass"},
	{"group", "Group"},
	{"application", "Application"},
	{"user", "User"},
	{"church", "Church"},
	{"club", "Club"},
}

// pathSubjects is the fallback when no route parameter matched. It is less
// reliable, so nested resources come before their parents.
var pathSubjects = []struct {
	segment    string
	entityType string
}{
	{"/members", "Member"},
	{"/staff", "Staff"},
	{"/events", "Event"},
	{"/classes", "ClubClass"},
	{"/groups", "Group"},
	{"/applications", "Application"},
	{"/users", "User"},
	{"/churches", "Church"},
	{"/clubs", "Club"},
}

type statusCoder interface {
	StatusCode() int
}

// IsExpected reports errors that are normal control flow and never audited.
func IsExpected(err error) bool {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return true
	}
	for _, target := range []error{
		httperr.ErrValidation,
		httperr.ErrUnauthenticated,
		httperr.ErrForbidden,
		httperr.ErrNotFound,
		gorm.ErrRecordNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// InferSubject guesses the entity a failing request was about: first from
// route parameters, then from the path.
func InferSubject(params []Param, path string) (entityType string, entityID *uint, ok bool) {
	values := make(map[string]any, len(params))
	for _, p := range params {
		if _, seen := values[p.Name]; !seen {
			values[p.Name] = p.Value
		}
	}
	for _, s := range routeParamSubjects {
		v, present := values[s.param]
		if !present {
			continue
		}
		if key, isRecord := recordKey(v); isRecord {
			return s.entityType, toID(key), true
		}
		return s.entityType, toID(v), true
	}

	padded := strings.TrimSuffix(path, "/") + "/"
	for _, s := range pathSubjects {
		if strings.Contains(padded, s.segment+"/") {
			return s.entityType, nil, true
		}
	}
	return "", nil, false
}

// ExceptionReporter writes exception entries for unexpected failures.
type ExceptionReporter struct {
	recorder      *Recorder
	log           *zap.Logger
	recordUnknown bool
}

type ExceptionOption func(*ExceptionReporter)

// RecordUnknownSubjects keeps failures whose subject cannot be inferred,
// filed under entity type "Unknown", instead of dropping them.
func RecordUnknownSubjects(enabled bool) ExceptionOption {
	return func(r *ExceptionReporter) {
		r.recordUnknown = enabled
	}
}

func NewExceptionReporter(recorder *Recorder, log *zap.Logger, opts ...ExceptionOption) *ExceptionReporter {
	if log == nil {
		log = zap.NewNop()
	}
	r := &ExceptionReporter{recorder: recorder, log: log.Named("audit")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report never panics and never returns an error; the caller keeps handling
// the original failure however it would have.
func (r *ExceptionReporter) Report(ctx context.Context, f Failure) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("exception audit panicked", zap.Any("panic", rec))
		}
	}()

	if f.Err == nil || f.Request == nil {
		return
	}
	if IsExpected(f.Err) {
		return
	}
	if ctx == nil {
		ctx = f.Request.Context()
	}

	path := ""
	if f.Request.URL != nil {
		path = f.Request.URL.Path
	}

	entityType, entityID, ok := InferSubject(f.Params, path)
	if !ok {
		if !r.recordUnknown {
			return
		}
		entityType = unknownSubject
	}

	entry := newEntry(ctx, ActionException, entityType)
	entry.EntityID = entityID
	entry.ErrorMessage = optional(f.Err.Error())
	entry.ErrorClass = optional(fmt.Sprintf("%T", f.Err))
	entry.Metadata = datatypes.JSONMap{"request_path": path}
	if f.Route != "" {
		entry.Metadata["route_pattern"] = f.Route
	}
	r.recorder.Record(ctx, entry)
}
