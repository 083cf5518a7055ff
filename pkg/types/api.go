package types

// ChatRequest is the body accepted by any POST to the server.
type ChatRequest struct {
	// Single user utterance to reply to.
	// example: hello
	Request string `json:"request" example:"hello"`
}

// ChatResponse carries the assistant reply for a successful request.
type ChatResponse struct {
	// Assistant reply generated by the model.
	// example: Hi there!
	Response string `json:"response" example:"Hi there!"`
}

// ErrorResponse is the JSON error payload. It never appears together with ChatResponse.
type ErrorResponse struct {
	// Error message.
	// example: Invalid JSON data
	Error string `json:"error" example:"Invalid JSON data"`
}
