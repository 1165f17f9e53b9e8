package models

type CreateConversationRequestBody struct {
	Type       string  `json:"type"`
	Name       *string `json:"name"`
	ChantierID *uint   `json:"chantier_id"`
	Users      []uint  `json:"users"`
}
