package entity

import "time"

// User represents an account row in the `users` table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ProfileUpdate carries the profile fields a user may change. Nil means
// "leave as is".
type ProfileUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the update would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil
}
