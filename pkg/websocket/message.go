package websocket

import "time"

// Envelope - конверт сообщения: тип подсказывает клиенту, как разбирать Payload.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	MessageHistoryRecorded = "history.recorded"
	MessageWelcome         = "welcome"
)
