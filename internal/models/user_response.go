package models

import "time"

type UserResponse struct {
	ID           uint       `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	ProfilePhoto *string    `json:"profile_photo"`
	LastSeen     *time.Time `json:"last_seen"`
}
