package holiday

import "context"

type HolidayResponse struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Weekday string `json:"weekday"`
}

type HolidayService interface {
	// List returns configured holidays in year, or all of them when year is 0.
	List(ctx context.Context, year int) ([]HolidayResponse, error)
}
