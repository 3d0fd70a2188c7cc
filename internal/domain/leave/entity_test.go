package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCalculateTotalDays(t *testing.T) {
	assert.Equal(t, 1.0, CalculateTotalDays(day("2025-03-10"), day("2025-03-10"), false))
	assert.Equal(t, 3.0, CalculateTotalDays(day("2025-03-10"), day("2025-03-12"), false))
	assert.Equal(t, 0.5, CalculateTotalDays(day("2025-03-10"), day("2025-03-10"), true))
	// spans a leap day
	assert.Equal(t, 31.0, CalculateTotalDays(day("2024-02-15"), day("2024-03-16"), false))
	assert.Equal(t, 365.0, CalculateTotalDays(day("2025-01-01"), day("2025-12-31"), false))
}

func TestBalanceArithmetic(t *testing.T) {
	b := Balance{MaxDays: 21, Carryover: 2, Used: 5}
	assert.Equal(t, 23.0, b.Total())
	assert.Equal(t, 18.0, b.Remaining())
	assert.True(t, b.CanReserve(18))
	assert.False(t, b.CanReserve(18.5))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusApproved, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
}

func TestRequestYearFollowsStartDate(t *testing.T) {
	r := Request{StartDate: day("2025-12-30"), EndDate: day("2026-01-02")}
	assert.Equal(t, 2025, r.Year())
}

func TestSummaryKey(t *testing.T) {
	assert.Equal(t, "annual", SummaryKey(" Annual "))
}
