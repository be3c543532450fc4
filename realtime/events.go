package realtime

import (
	"fmt"
	"strings"
	"time"
)

const (
	TableBookings = "bookings"
	TableMessages = "messages"
)

// Event types
const (
	EventBookingInsert = "booking_insert"
	EventBookingUpdate = "booking_update"
	EventBookingDelete = "booking_delete"
	EventMessageInsert = "message_insert"
	EventStatsUpdate   = "stats_update"
)

type Message struct {
	Event  string      `json:"event"`
	Table  string      `json:"table,omitempty"`
	Action string      `json:"action,omitempty"`
	Data   interface{} `json:"data"`
	At     time.Time   `json:"at"`
}

// EventFor maps a journaled change to its event name, e.g. bookings/UPDATE -> booking_update.
func EventFor(table, action string) string {
	singular := strings.TrimSuffix(table, "s")
	return fmt.Sprintf("%s_%s", singular, strings.ToLower(action))
}
