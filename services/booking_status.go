package services

import "github.com/yeremiapane/restaurant-booking/models"

// Action is a button offered on a booking card.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionSeat    Action = "seat"
	ActionNoShow  Action = "no_show"
	ActionReset   Action = "reset"
)

var actionTargets = map[Action]models.BookingStatus{
	ActionConfirm: models.BookingConfirmed,
	ActionCancel:  models.BookingCancelled,
	ActionSeat:    models.BookingSeated,
	ActionNoShow:  models.BookingNoShow,
	ActionReset:   models.BookingPending,
}

// Edges offered by the dashboard. Storage accepts any status; these are policy.
var offeredTargets = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingSeated, models.BookingNoShow, models.BookingCancelled},
	models.BookingSeated:    {models.BookingPending},
	models.BookingCancelled: {models.BookingPending},
	models.BookingNoShow:    {models.BookingPending},
}

// AllowedTargets returns the statuses reachable from current through the action set.
func AllowedTargets(current models.BookingStatus) []models.BookingStatus {
	targets := offeredTargets[current]
	out := make([]models.BookingStatus, len(targets))
	copy(out, targets)
	return out
}

func IsOffered(current, target models.BookingStatus) bool {
	for _, t := range offeredTargets[current] {
		if t == target {
			return true
		}
	}
	return false
}

func ActionTarget(a Action) (models.BookingStatus, bool) {
	s, ok := actionTargets[a]
	return s, ok
}

// AvailableActions lists the buttons to show for a booking in current.
func AvailableActions(current models.BookingStatus) []Action {
	var out []Action
	for _, target := range offeredTargets[current] {
		for _, a := range []Action{ActionConfirm, ActionSeat, ActionNoShow, ActionCancel, ActionReset} {
			if actionTargets[a] == target {
				out = append(out, a)
			}
		}
	}
	return out
}

// NextStatus resolves an action against the current status.
func NextStatus(current models.BookingStatus, a Action) (models.BookingStatus, error) {
	target, ok := ActionTarget(a)
	if !ok {
		return "", ErrUnknownAction
	}
	if !IsOffered(current, target) {
		return "", ErrTransitionNotOffered
	}
	return target, nil
}
