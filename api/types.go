package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	messageHandler messageHandler
	contactHandler contactHandler
	authHandler    authHandler
	uploadHandler  uploadHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
}

// successResponse is the body for mutations that only need to acknowledge.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
