package user

import (
	"context"

	"horizon/internal/shared/logging"
)

// IdentityClient is the slice of the identity vendor API the resolver needs.
type IdentityClient interface {
	// GetAccount exchanges a session token for the account it belongs to.
	GetAccount(ctx context.Context, sessionToken string) (*Principal, error)
}

// Resolver turns an opaque session token into a Principal.
//
// Resolution failures (missing token, expired or revoked session, vendor
// rejection) all yield an absent principal rather than an error: callers
// branch on nil and respond with an unauthenticated outcome.
type Resolver struct {
	identity IdentityClient
}

func NewResolver(identity IdentityClient) *Resolver {
	return &Resolver{identity: identity}
}

// Resolve returns the Principal for the given session token, or nil when
// the session cannot be resolved for any reason.
func (r *Resolver) Resolve(ctx context.Context, sessionToken string) *Principal {
	if sessionToken == "" {
		return nil
	}

	principal, err := r.identity.GetAccount(ctx, sessionToken)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Debug().Err(err).Msg("session resolution failed")
		return nil
	}

	return principal
}
