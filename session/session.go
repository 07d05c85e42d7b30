// Package session holds the per-login context: who is signed in and what is
// in their cart. Sessions live in a Store keyed by a random id.
package session

import (
	"context"
	"errors"
	"time"

	"fooddelight/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Identity is the signed-in principal. UserID is set for customers, PartnerID
// for delivery partners; admins carry neither.
type Identity struct {
	Role      models.UserRole `json:"role"`
	UserID    uint            `json:"user_id,omitempty"`
	PartnerID uint            `json:"partner_id,omitempty"`
	Name      string          `json:"name"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
}

type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	Cart      Cart      `json:"cart"`
	CreatedAt time.Time `json:"created_at"`
}

func New(id Identity) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Identity:  id,
		Cart:      Cart{},
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists sessions. Get returns a copy; callers Save it back after
// changing the cart.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Cart = s.Cart.clone()
	return &cp
}
