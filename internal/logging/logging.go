// Package logging writes one JSON object per line for domain events, on top of
// the standard logger so output interleaves with the process log.
package logging

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Component string `json:"component"`
	Event     string `json:"event,omitempty"`
	EventID   string `json:"event_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	Reference string `json:"reference,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

var output = log.Default()

func Log(fields Fields) {
	payload := struct {
		Fields
		Timestamp string `json:"timestamp"`
	}{fields, time.Now().UTC().Format(time.RFC3339Nano)}

	data, err := json.Marshal(payload)
	if err != nil {
		output.Printf("{\"component\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Component, err.Error())
		return
	}
	output.Print(string(data))
}

// Error logs fields with the error message attached.
func Error(fields Fields, err error) {
	if err != nil {
		fields.Error = err.Error()
	}
	Log(fields)
}
