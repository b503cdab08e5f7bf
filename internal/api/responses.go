package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Services map[string]string `json:"services,omitempty"`
}

type FieldError struct {
	Code    string `json:"code" example:"min"`
	Message string `json:"message" example:"must be at least 2 characters"`
}

// ValidationErrorResponse carries one entry per invalid field.
type ValidationErrorResponse struct {
	Error  string                `json:"error" example:"validation failed"`
	Fields map[string]FieldError `json:"fields"`
}
