package audit

import (
	"context"
	"sort"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/club-admin/internal/models"
)

const defaultIdentityType = "User"

// Identity is the authenticated principal carried by login and logout
// signals.
type Identity struct {
	ID    uint
	Email string
	Type  string
}

func (i Identity) entityType() string {
	if i.Type == "" {
		return defaultIdentityType
	}
	return i.Type
}

// FailedLogin carries what is safe to keep about a rejected attempt: the
// identifier that was tried and the names of the submitted fields.
type FailedLogin struct {
	Guard          string
	Identifier     string
	IdentityType   string
	CredentialKeys []string
}

// AuthEvents records authentication signals. Every signal yields exactly one
// entry.
type AuthEvents struct {
	recorder *Recorder
}

func NewAuthEvents(recorder *Recorder) *AuthEvents {
	return &AuthEvents{recorder: recorder}
}

func (a *AuthEvents) LoginSucceeded(ctx context.Context, guard string, who Identity) {
	a.recorder.Record(ctx, identityEntry(ctx, ActionLogin, guard, who))
}

func (a *AuthEvents) LoggedOut(ctx context.Context, guard string, who Identity) {
	a.recorder.Record(ctx, identityEntry(ctx, ActionLogout, guard, who))
}

func (a *AuthEvents) LoginFailed(ctx context.Context, attempt FailedLogin) {
	entityType := attempt.IdentityType
	if entityType == "" {
		entityType = defaultIdentityType
	}

	keys := append([]string{}, attempt.CredentialKeys...)
	sort.Strings(keys)

	entry := newEntry(ctx, ActionFailedLogin, entityType)
	entry.EntityLabel = optional(attempt.Identifier)
	entry.Metadata = datatypes.JSONMap{
		"guard":       attempt.Guard,
		"credentials": keys,
	}
	a.recorder.Record(ctx, entry)
}

func identityEntry(ctx context.Context, action Action, guard string, who Identity) *models.AuditLog {
	entry := newEntry(ctx, action, who.entityType())
	id := who.ID
	entry.ActorID = &id
	entry.EntityID = &id
	entry.EntityLabel = optional(who.Email)
	entry.Metadata = datatypes.JSONMap{"guard": guard}
	return entry
}

// CredentialKeys returns the field names of submitted credentials, never
// their values.
func CredentialKeys(credentials map[string]any) []string {
	keys := make([]string, 0, len(credentials))
	for k := range credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
