package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
)

// Identity is the profile obtained from the OAuth provider.
type Identity struct {
	GoogleID  string
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

type Profile struct {
	FirstName    string                       `json:"first_name"`
	LastName     string                       `json:"last_name"`
	Avatar       string                       `json:"avatar"`
	Subscription subscriptiondomain.QuotaInfo `json:"subscription"`
}

type Service interface {
	// EnsureFromIdentity upserts the local user row for an OAuth identity.
	EnsureFromIdentity(ctx context.Context, identity Identity) (*User, error)
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	// GetProfile returns the user's display fields plus the current
	// quota evaluation.
	GetProfile(ctx context.Context, id snowflake.ID) (Profile, error)
}

var (
	ErrUserNotFound = errors.New("user_not_found")
	ErrStorage      = errors.New("database_error")
)
