package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser = "user"

	// token purposes
	PurposeAccess        = "access"
	PurposePasswordReset = "password_reset"
)

// User is the profile record. PasswordHash is empty for accounts created through
// an external identity provider until a password is set.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Favourites   []uuid.UUID
	CreatedAt    time.Time
}

// Claims are the values carried in a signed token.
type Claims struct {
	UserID  uuid.UUID
	Email   string
	Role    string
	Purpose string
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// IsAnonymous reports whether no user is signed in.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// IdentityFromClaims builds the caller identity from a validated access token.
func IdentityFromClaims(c *Claims) Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// ExternalIdentity is what an OAuth provider tells us about a user.
type ExternalIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// NewUser creates a password account. The password is hashed here.
func NewUser(username, email, password string) (*User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        NormalizeEmail(email),
		PasswordHash: string(hashedPassword),
		Role:         RoleUser,
		Favourites:   []uuid.UUID{},
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NewExternalUser creates a profile for a user signed in through a provider.
func NewExternalUser(ext ExternalIdentity) *User {
	username := strings.TrimSpace(ext.Name)
	if username == "" {
		username, _, _ = strings.Cut(ext.Email, "@")
	}
	return &User{
		ID:         uuid.New(),
		Username:   username,
		Email:      NormalizeEmail(ext.Email),
		Role:       RoleUser,
		Favourites: []uuid.UUID{},
		CreatedAt:  time.Now().UTC(),
	}
}

// CheckPassword compares password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
