package appbase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"horizon/internal/domain/user"
)

// accountPayload is the wire form of a user account.
type accountPayload struct {
	ID        string `json:"$id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (p *accountPayload) toPrincipal() *user.Principal {
	return &user.Principal{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// sessionPayload is the wire form of an identity session. The secret is
// what goes into the cookie.
type sessionPayload struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

// CreateUser registers a new user with the identity vendor. Requires the
// admin key; the vendor owns credential custody and hashing.
func (c *Client) CreateUser(ctx context.Context, params user.SignUpParams) (*user.Principal, error) {
	body := map[string]string{
		"userId":    uuid.NewString(),
		"email":     params.Email,
		"password":  params.Password,
		"firstName": params.FirstName,
		"lastName":  params.LastName,
	}

	var payload accountPayload
	if err := c.do(ctx, http.MethodPost, "/users", body, &payload); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return payload.toPrincipal(), nil
}

// CreateEmailSession exchanges email/password credentials for a session.
func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*user.Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var payload sessionPayload
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", body, &payload); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &user.Session{
		ID:     payload.ID,
		UserID: payload.UserID,
		Secret: payload.Secret,
	}, nil
}

// GetAccount returns the account the session token belongs to.
// Implements user.IdentityClient.
func (c *Client) GetAccount(ctx context.Context, sessionToken string) (*user.Principal, error) {
	var payload accountPayload
	if err := c.WithSession(sessionToken).do(ctx, http.MethodGet, "/account", nil, &payload); err != nil {
		return nil, err
	}

	return payload.toPrincipal(), nil
}

// DeleteSession revokes the session the token belongs to.
func (c *Client) DeleteSession(ctx context.Context, sessionToken string) error {
	if err := c.WithSession(sessionToken).do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
