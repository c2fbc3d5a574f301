package models

import "fleetfin/internal/domain"

type User struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         domain.Role `json:"role"`
	Active       bool        `json:"active"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

// BackupUser carries the hash so a restored database keeps working logins.
type BackupUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

func (u User) Actor() domain.Actor {
	return domain.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}
