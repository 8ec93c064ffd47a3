// Package session resolves the current user once at startup. Every
// component that needs the identity receives it explicitly; nothing
// else in the tree decodes tokens.
package session

import (
	"fmt"

	"github.com/md-rashed-zaman/opscal/libs/auth"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

type Session struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Token  string
}

// FromToken decodes the session identity from the configured bearer
// token's payload.
func FromToken(token string) (Session, error) {
	claims, err := auth.ParseNoVerify(token)
	if err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}
	return Session{
		UserID: claims.Sub,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  token,
	}, nil
}

// Organizer returns the current user's organizer snapshot.
func (s Session) Organizer() model.Organizer {
	return model.Organizer{
		EmployeeID: s.UserID,
		Name:       s.Name,
		Email:      s.Email,
	}
}
