// Package model defines domain entities for the application.
package model

import "time"

// User is a registry record. ID and CreatedAt are assigned by the store.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Hobby     string    `json:"hobby"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFields holds the caller-supplied fields of a new user.
type UserFields struct {
	FirstName string
	LastName  string
	Email     string
	Hobby     string
}

// UserPatch is a partial update. A nil field is left untouched;
// a pointer to "" clears the field.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Hobby     *string
}

// IsEmpty reports whether the patch supplies no fields.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Hobby == nil
}

// Apply returns u with the supplied fields of p merged in.
// ID and CreatedAt are never touched.
func (p UserPatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Hobby != nil {
		u.Hobby = *p.Hobby
	}
	return u
}
