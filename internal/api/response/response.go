// Package response holds the JSON envelope shared by every manager endpoint.
package response

// Envelope is the {success, data?, message?} body returned by the API.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Message is a successful result that carries only a message.
func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}
