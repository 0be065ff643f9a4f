package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ahorros/cmd/tui/internal/view"
)

func TestTimeframe_DateRange(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	endOfDay := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
	}

	tests := []struct {
		name      string
		tf        view.Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "this month",
			tf:        view.TimeframeThisMonth,
			wantStart: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(2026, time.March, 15),
		},
		{
			name:      "last month",
			tf:        view.TimeframeLastMonth,
			wantStart: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(2026, time.February, 28),
		},
		{
			name:      "last three months",
			tf:        view.TimeframeLastQuarter,
			wantStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(2026, time.March, 15),
		},
		{
			name:      "this year",
			tf:        view.TimeframeThisYear,
			wantStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   endOfDay(2026, time.March, 15),
		},
		{name: "all time", tf: view.TimeframeAll},
		{name: "custom", tf: view.TimeframeCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.tf.DateRange(now)

			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}
