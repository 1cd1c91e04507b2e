package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusActive, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusActive, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusNoShow, true},
		{BookingStatusConfirmed, BookingStatusCompleted, false},
		{BookingStatusActive, BookingStatusCompleted, true},
		{BookingStatusActive, BookingStatusCancelled, false},
		{BookingStatusActive, BookingStatusNoShow, false},
	}
	for _, tc := range cases {
		b := Booking{Status: tc.from}
		assert.Equal(t, tc.allowed, b.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingTerminalStatesRejectEverything(t *testing.T) {
	targets := []string{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow,
	}
	for _, terminal := range []string{BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow} {
		b := Booking{Status: terminal}
		assert.True(t, b.IsTerminal(), terminal)
		for _, target := range targets {
			assert.False(t, b.CanTransitionTo(target), "%s -> %s", terminal, target)
		}
	}
}

func TestBookingCanBeCancelled(t *testing.T) {
	now := time.Now()

	future := Booking{Status: BookingStatusConfirmed, PickupDate: now.Add(48 * time.Hour)}
	assert.True(t, future.CanBeCancelled(now))

	past := Booking{Status: BookingStatusConfirmed, PickupDate: now.Add(-time.Hour)}
	assert.False(t, past.CanBeCancelled(now), "pickup date has passed")

	active := Booking{Status: BookingStatusActive, PickupDate: now.Add(48 * time.Hour)}
	assert.False(t, active.CanBeCancelled(now), "active rentals cannot be cancelled")
}

func TestBookingIsOverdue(t *testing.T) {
	now := time.Now()

	overdue := Booking{Status: BookingStatusActive, ReturnDate: now.Add(-2 * time.Hour)}
	assert.True(t, overdue.IsOverdue(now))

	onTime := Booking{Status: BookingStatusActive, ReturnDate: now.Add(2 * time.Hour)}
	assert.False(t, onTime.IsOverdue(now))

	completed := Booking{Status: BookingStatusCompleted, ReturnDate: now.Add(-2 * time.Hour)}
	assert.False(t, completed.IsOverdue(now), "only active rentals can be overdue")
}
