package errors

// ErrorInfo is the error body of a failed response
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g. "ACCOUNT_NOT_FOUND"
	Message string `json:"message"`           // Human-readable message, always present
	Details any    `json:"details,omitempty"` // Optional detail, stripped for auth and server errors
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}
