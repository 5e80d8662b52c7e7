package dto

// DateLayout format des dates échangées avec le frontend (JSON).
const DateLayout = "2006-01-02"

// ErrorResponse corps d'erreur HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
