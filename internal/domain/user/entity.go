package user

import "time"

// User is an identity in the directory, independent of any tenant
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}

// Membership links a user to a tenant
type Membership struct {
	TenantID  string
	UserID    string
	CreatedAt time.Time
}
