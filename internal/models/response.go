package models

// Response is the envelope every endpoint answers with. Errors carry
// errs.Error values, which marshal to their message strings so clients can
// map them back onto the taxonomy.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors"`
	Data    interface{} `json:"data"`
}
