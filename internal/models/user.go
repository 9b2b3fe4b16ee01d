package models

import "time"

type UserRole string

const (
	UserRoleDoctor  UserRole = "doctor"
	UserRolePatient UserRole = "patient"
)

func (r UserRole) Valid() bool {
	return r == UserRoleDoctor || r == UserRolePatient
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         UserRole
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
