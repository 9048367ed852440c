package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestNeedsRenewalBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		expiration time.Time
		want       bool
	}{
		{"already expired", today.AddDate(0, 0, -1), true},
		{"expires today", today, true},
		{"expires in 10 days", today.AddDate(0, 0, 10), true},
		{"expires in 29 days", today.AddDate(0, 0, 29), true},
		{"expires in 30 days", today.AddDate(0, 0, 30), false},
		{"expires in 31 days", today.AddDate(0, 0, 31), false},
		{"expires next year", today.AddDate(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRenewal(tt.expiration, today, DefaultWindow))
		})
	}
}

func TestNeedsRenewalIgnoresTimeOfDay(t *testing.T) {
	now := today.Add(23*time.Hour + 59*time.Minute)
	expiration := today.AddDate(0, 0, 30).Add(time.Minute)

	assert.False(t, NeedsRenewal(expiration, now, DefaultWindow))
	assert.True(t, NeedsRenewal(expiration.AddDate(0, 0, -1), now, DefaultWindow))
}

func TestNeedsRenewalIsAntitone(t *testing.T) {
	prev := true
	for offset := -60; offset <= 60; offset++ {
		got := NeedsRenewal(today.AddDate(0, 0, offset), today, DefaultWindow)
		if got && !prev {
			t.Fatalf("needs renewal flipped back to true at offset %d", offset)
		}
		prev = got
	}
}

func TestNeedsRenewalCustomWindow(t *testing.T) {
	window := WindowDays(7)

	assert.True(t, NeedsRenewal(today.AddDate(0, 0, 6), today, window))
	assert.False(t, NeedsRenewal(today.AddDate(0, 0, 7), today, window))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(today.Add(5*time.Hour), today))
	assert.Equal(t, 30, DaysUntil(today.AddDate(0, 0, 30), today))
	assert.Equal(t, -3, DaysUntil(today.AddDate(0, 0, -3), today))
}

func TestWindowDays(t *testing.T) {
	assert.Equal(t, DefaultWindow, WindowDays(0))
	assert.Equal(t, DefaultWindow, WindowDays(-5))
	assert.Equal(t, 14*24*time.Hour, WindowDays(14))
}
