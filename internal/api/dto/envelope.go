package dto

// Envelope is the uniform response shape for every endpoint, success and
// failure alike.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	Success    bool     `json:"success"`
}

// NewEnvelope wraps response data.
func NewEnvelope(statusCode int, data any, message string) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// NewErrorEnvelope wraps a failure.
func NewErrorEnvelope(statusCode int, messages []string) Envelope {
	message := "Something went wrong"
	if len(messages) > 0 {
		message = messages[0]
	}
	return Envelope{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Errors:     messages,
		Success:    false,
	}
}
