package audit

import "context"

// RequestInfo is the HTTP metadata attached to a request context by the
// request-context middleware.
type RequestInfo struct {
	Route     string
	Method    string
	URL       string
	IP        string
	UserAgent string
	RequestID string
}

// Context is what gets stamped on every ledger entry.
type Context struct {
	ActorID *uint
	RequestInfo
}

type requestInfoKey struct{}
type actorKey struct{}

func WithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// Capture reads the ambient actor and request metadata from ctx. Outside of
// an HTTP request every request field is empty.
func Capture(ctx context.Context) Context {
	var out Context
	if ctx == nil {
		return out
	}
	if id, ok := ctx.Value(actorKey{}).(uint); ok {
		out.ActorID = &id
	}
	if info, ok := ctx.Value(requestInfoKey{}).(RequestInfo); ok {
		out.RequestInfo = info
	}
	return out
}
