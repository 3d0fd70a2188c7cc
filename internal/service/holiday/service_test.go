package holiday

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_FiltersByYear(t *testing.T) {
	holidays, err := config.ParseHolidays("2025-01-01=New Year's Day;2025-12-25=Christmas Day;2026-01-01=New Year's Day")
	require.NoError(t, err)
	svc := NewHolidayService(holidays)

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	in2025, err := svc.List(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, in2025, 2)
	assert.Equal(t, "2025-01-01", in2025[0].Date)
	assert.Equal(t, "Wednesday", in2025[0].Weekday)
	assert.Equal(t, "Christmas Day", in2025[1].Name)

	none, err := svc.List(context.Background(), 1999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
