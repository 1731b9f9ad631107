package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDimDate(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		dayOfWeek  int
		dayName    string
		monthName  string
		quarter    int
		weekOfYear int
		isWeekend  bool
	}{
		{
			name:       "monday mid quarter",
			input:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			dayOfWeek:  1,
			dayName:    "Monday",
			monthName:  "March",
			quarter:    1,
			weekOfYear: 10,
			isWeekend:  false,
		},
		{
			name:       "saturday is weekend",
			input:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			dayOfWeek:  6,
			dayName:    "Saturday",
			monthName:  "June",
			quarter:    2,
			weekOfYear: 24,
			isWeekend:  true,
		},
		{
			name:       "sunday maps to seven",
			input:      time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
			dayOfWeek:  7,
			dayName:    "Sunday",
			monthName:  "December",
			quarter:    4,
			weekOfYear: 52,
			isWeekend:  true,
		},
		{
			name:       "timestamp truncates to date",
			input:      time.Date(2024, 10, 1, 17, 45, 9, 0, time.UTC),
			dayOfWeek:  2,
			dayName:    "Tuesday",
			monthName:  "October",
			quarter:    4,
			weekOfYear: 40,
			isWeekend:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDimDate(tt.input)

			assert.Equal(t, tt.input.Year(), d.Year)
			assert.Equal(t, int(tt.input.Month()), d.Month)
			assert.Equal(t, tt.input.Day(), d.Day)
			assert.Equal(t, tt.dayOfWeek, d.DayOfWeek)
			assert.Equal(t, tt.dayName, d.DayName)
			assert.Equal(t, tt.monthName, d.MonthName)
			assert.Equal(t, tt.quarter, d.Quarter)
			assert.Equal(t, tt.weekOfYear, d.WeekOfYear)
			assert.Equal(t, tt.isWeekend, d.IsWeekend)
			assert.Equal(t, 0, d.Date.Hour())
		})
	}
}
