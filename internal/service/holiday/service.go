package holiday

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holidays []config.Holiday
}

// NewHolidayService serves holidays from configuration; the slice is expected sorted by date.
func NewHolidayService(holidays []config.Holiday) holiday.HolidayService {
	return &HolidayServiceImpl{holidays: holidays}
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(_ context.Context, year int) ([]holiday.HolidayResponse, error) {
	responses := make([]holiday.HolidayResponse, 0, len(s.holidays))
	for _, h := range s.holidays {
		if year != 0 && h.Date.Year() != year {
			continue
		}
		responses = append(responses, holiday.HolidayResponse{
			Date:    h.Date.Format("2006-01-02"),
			Name:    h.Name,
			Weekday: h.Date.Weekday().String(),
		})
	}
	return responses, nil
}
