package entity

import "time"

// Kind tells which account table a session belongs to.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Identity is the authenticated principal bound to a session.
type Identity struct {
	Kind      Kind
	SubjectID uint
	Username  string
	Role      string
}

// UserIdentity returns the identity of a logged-in customer.
func UserIdentity(u *User) Identity {
	return Identity{Kind: KindUser, SubjectID: u.ID, Username: u.Username, Role: RoleUser}
}

// AdminIdentity returns the identity of a logged-in admin.
func AdminIdentity(a *Admin) Identity {
	return Identity{Kind: KindAdmin, SubjectID: a.ID, Username: a.Username, Role: a.Role}
}

// Session is a server-held login. ID is the opaque token handed to the client.
type Session struct {
	ID        string // 64-character hex string
	Kind      Kind
	SubjectID uint
	Username  string
	Role      string
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpiresAt)
}

// Identity returns the principal the session was issued for.
func (s *Session) Identity() Identity {
	return Identity{Kind: s.Kind, SubjectID: s.SubjectID, Username: s.Username, Role: s.Role}
}
