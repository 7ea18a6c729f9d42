package credgate

import "time"

// UserRecord is the user view the engine needs from its provider. The
// engine never owns the user row; the provider remains the system of
// record.
type UserRecord struct {
	ID           string
	Identifier   string
	PasswordHash string
}

// UserProvider is the interface callers implement to integrate credgate
// with their user database. Lookups return (nil, nil) for an unknown user;
// an error means the provider itself failed.
type UserProvider interface {
	GetUserByIdentifier(identifier string) (*UserRecord, error)
	GetUserByID(userID string) (*UserRecord, error)
	CreateUser(identifier, passwordHash string) (string, error)
	UpdatePasswordHash(userID, newHash string) error
}

// Credentials is the pair returned by Login and Refresh: a signed access
// token and the opaque refresh value that replaces whatever the caller
// presented.
type Credentials struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Session is returned by IssueSession.
type Session struct {
	RefreshToken string
	ExpiresAt    time.Time
}

// Rotation is returned by RotateSession.
type Rotation struct {
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time
}
