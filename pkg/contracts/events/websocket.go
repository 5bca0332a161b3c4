// Package events defines the messages pushed over the WebSocket connection.
package events

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeAttendanceUpdated MessageType = "attendance:updated"
	MessageTypeConnect           MessageType = "connect"
)

// Message is the envelope of every WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// AttendanceUpdated announces that a new snapshot replaced the previous one
type AttendanceUpdated struct {
	ID       string `json:"id"`
	Digest   string `json:"digest"`
	Source   string `json:"source"`
	Sessions int    `json:"sessions"`
	Rolls    int    `json:"rolls"`
}

// Connected is sent to a client right after the upgrade
type Connected struct {
	ClientID string `json:"client_id"`
}
