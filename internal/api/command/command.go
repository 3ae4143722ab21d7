// Package command decodes manager request bodies into typed commands.
//
// Every manager accepts a JSON body of the form {"action": "...", ...fields}.
// The action selects a concrete command type; each manager's command set is
// closed by an unexported marker method so handlers can switch over it.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// Command is implemented by every decoded request.
type Command interface {
	Action() string
}

type envelope struct {
	Action string `json:"action"`
}

// decode reads the action tag and unmarshals body into the command registered
// for it.
func decode[C Command](body []byte, registry map[string]func() C) (C, error) {
	var zero C

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
	}
	newCmd, ok := registry[env.Action]
	if !ok {
		return zero, fmt.Errorf("%w: %q", domain.ErrUnknownAction, env.Action)
	}

	cmd := newCmd()
	if err := json.Unmarshal(body, cmd); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, env.Action, err)
	}
	return cmd, nil
}
