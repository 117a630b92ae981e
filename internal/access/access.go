// Package access resolves whether the current caller may use the recruiter
// operations entry points.
//
// Authentication happens upstream: the gateway forwards the user id and the
// capabilities it granted. Transports place that Caller into the context and
// every entry point asks an Authorizer once, before touching the store.
package access

import (
	"context"
	"slices"
	"strings"
)

// CapabilityOpsDashboard is required by every recruiter entry point.
const CapabilityOpsDashboard = "ops_dashboard"

// Caller is the identity forwarded by the gateway.
type Caller struct {
	UserID       string
	Capabilities []string
}

// Has reports whether the caller was granted capability.
func (c Caller) Has(capability string) bool {
	return slices.Contains(c.Capabilities, capability)
}

type callerKey struct{}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller stored in ctx, if any.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// ParseCapabilities splits a comma separated header value.
func ParseCapabilities(raw string) []string {
	var caps []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			caps = append(caps, p)
		}
	}
	return caps
}

// Authorizer answers "is the current caller authorized".
type Authorizer interface {
	Authorized(ctx context.Context) bool
}

// CapabilityAuthorizer requires a caller with a user id and Capability.
type CapabilityAuthorizer struct {
	Capability string
}

// NewCapabilityAuthorizer returns an authorizer for the ops dashboard.
func NewCapabilityAuthorizer() CapabilityAuthorizer {
	return CapabilityAuthorizer{Capability: CapabilityOpsDashboard}
}

func (a CapabilityAuthorizer) Authorized(ctx context.Context) bool {
	c, ok := CallerFrom(ctx)
	if !ok || c.UserID == "" {
		return false
	}
	return c.Has(a.Capability)
}

// Static always answers with its own value. Used by the digest job, which
// runs as the service itself, and by tests.
type Static bool

func (s Static) Authorized(context.Context) bool { return bool(s) }
