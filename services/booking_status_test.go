package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/models"
)

func TestAllowedTargets(t *testing.T) {
	cases := []struct {
		from models.BookingStatus
		want []models.BookingStatus
	}{
		{models.BookingPending, []models.BookingStatus{models.BookingConfirmed, models.BookingCancelled}},
		{models.BookingConfirmed, []models.BookingStatus{models.BookingSeated, models.BookingNoShow, models.BookingCancelled}},
		{models.BookingSeated, []models.BookingStatus{models.BookingPending}},
		{models.BookingCancelled, []models.BookingStatus{models.BookingPending}},
		{models.BookingNoShow, []models.BookingStatus{models.BookingPending}},
	}
	for _, tc := range cases {
		t.Run(string(tc.from), func(t *testing.T) {
			assert.Equal(t, tc.want, AllowedTargets(tc.from))
		})
	}
}

func TestEveryOfferedActionLandsOnAnAllowedTarget(t *testing.T) {
	for _, from := range models.BookingStatuses {
		for _, a := range AvailableActions(from) {
			next, err := NextStatus(from, a)
			assert.NoError(t, err)
			assert.Contains(t, AllowedTargets(from), next, "%s --%s-->", from, a)
		}
	}
}

func TestNextStatus(t *testing.T) {
	next, err := NextStatus(models.BookingPending, ActionConfirm)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, next)

	_, err = NextStatus(models.BookingPending, ActionSeat)
	assert.ErrorIs(t, err, ErrTransitionNotOffered)

	_, err = NextStatus(models.BookingSeated, Action("finish"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAvailableActions(t *testing.T) {
	assert.Equal(t, []Action{ActionConfirm, ActionCancel}, AvailableActions(models.BookingPending))
	assert.Equal(t, []Action{ActionSeat, ActionNoShow, ActionCancel}, AvailableActions(models.BookingConfirmed))
	assert.Equal(t, []Action{ActionReset}, AvailableActions(models.BookingNoShow))
	assert.Nil(t, AvailableActions(models.BookingStatus("bogus")))
}

func TestAllowedTargetsReturnsCopy(t *testing.T) {
	got := AllowedTargets(models.BookingPending)
	got[0] = models.BookingSeated
	assert.Equal(t, models.BookingConfirmed, AllowedTargets(models.BookingPending)[0])
}
