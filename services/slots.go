package services

import "fmt"

const (
	MinPartySize = 1
	MaxPartySize = 20
)

// BookingSlots is the time picker: every 30 minutes from 10:00 to 23:30, then midnight.
func BookingSlots() []string {
	slots := make([]string, 0, 29)
	for h := 10; h <= 23; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return append(slots, "00:00")
}
