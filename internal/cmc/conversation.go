package cmc

import (
	"github.com/pawrequest/gommence/internal/com"
)

// Conversation is a DDE conversation with the Commence application.
// The conversation interface predates cursors; it remains useful for
// the handful of topics cursors do not cover, such as GetData queries
// against merge fields.
type Conversation struct {
	obj   com.Object
	topic string
}

// Topic returns the DDE topic the conversation was opened on.
func (c *Conversation) Topic() string { return c.topic }

// Request sends a DDE request and returns the server's reply.
func (c *Conversation) Request(command string) (string, error) {
	v, err := c.obj.Call("Request", command)
	if err != nil {
		return "", translateCOM("dde request", err)
	}
	return v.String(), nil
}

// Execute sends a DDE execute command, which returns no data.
func (c *Conversation) Execute(command string) error {
	v, err := c.obj.Call("Execute", command)
	if err != nil {
		return translateCOM("dde execute", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "dde execute rejected: " + command}
	}
	return nil
}

// Close releases the COM reference.
func (c *Conversation) Close() {
	c.obj.Release()
}
