package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Commands understood by the running instance.
const (
	CmdHistoryList   = "history.list"   // args: search, limit
	CmdHistoryDelete = "history.delete" // args: text
	CmdHistoryClear  = "history.clear"
	CmdHistoryCopy   = "history.copy" // args: text
	CmdStatus        = "status"
	CmdShow          = "show" // raise the window
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a command sent from the CLI to the running instance.
type Request struct {
	ID      string         `json:"id"`
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

// Response represents a reply from the running instance to the CLI.
type Response struct {
	ID      string          `json:"id,omitempty"`
	Status  string          `json:"status"`            // "ok" or "error"
	Message string          `json:"message,omitempty"` // Human-readable message or error
	Data    json.RawMessage `json:"data,omitempty"`    // Command-specific payload
}

// HistoryList is the payload of a history.list response.
type HistoryList struct {
	Entries []string `json:"entries"`
	Total   int      `json:"total"`
}

func NewRequest(command string, args map[string]any) *Request {
	return &Request{ID: uuid.NewString(), Command: command, Args: args}
}

// OK builds a successful reply to req carrying data, which may be nil.
func OK(req *Request, message string, data any) *Response {
	resp := &Response{ID: req.ID, Status: StatusOK, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Errorf(req, "failed to encode response: %v", err)
		}
		resp.Data = raw
	}
	return resp
}

func Errorf(req *Request, format string, args ...any) *Response {
	resp := &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
	if req != nil {
		resp.ID = req.ID
	}
	return resp
}

// Err converts an error response into a Go error.
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	if r.Message == "" {
		return fmt.Errorf("request failed with status %q", r.Status)
	}
	return fmt.Errorf("%s", r.Message)
}

// DecodeData unmarshals the payload into v.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response carries no data")
	}
	return json.Unmarshal(r.Data, v)
}

// StringArg returns the named string argument.
func (r *Request) StringArg(name string) (string, bool) {
	v, ok := r.Args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntArg returns the named numeric argument. JSON numbers decode as float64.
func (r *Request) IntArg(name string) (int, bool) {
	switch v := r.Args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}
