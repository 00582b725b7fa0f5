package response

// StandardApiResponse is the wire envelope shared by all endpoints, success
// and error alike
type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Booking payload on success
	Errors     interface{} `json:"errors,omitempty"` // Validation or transition detail
}
