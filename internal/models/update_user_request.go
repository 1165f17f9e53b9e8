package models

type UpdateUserRequest struct {
	ID           uint    `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ProfilePhoto *string `json:"profile_photo"`
}
