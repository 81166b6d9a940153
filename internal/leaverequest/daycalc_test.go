package leaverequest_test

import (
	"testing"
	"time"

	"go-leave/internal/leaverequest"

	"github.com/stretchr/testify/assert"
)

func TestDays(t *testing.T) {
	day := func(value string) time.Time {
		d, err := time.Parse("2006-01-02", value)
		assert.NoError(t, err)
		return d
	}

	tests := []struct {
		name      string
		start     string
		end       string
		isHalfDay bool
		want      float64
	}{
		{"single day", "2026-03-02", "2026-03-02", false, 1},
		{"inclusive range", "2026-03-02", "2026-03-04", false, 3},
		{"week", "2026-03-02", "2026-03-08", false, 7},
		{"across month boundary", "2026-03-30", "2026-04-02", false, 4},
		{"across year boundary", "2026-12-30", "2027-01-02", false, 4},
		{"half day single date", "2026-03-02", "2026-03-02", true, 0.5},
		{"half day ignores range width", "2026-03-02", "2026-03-06", true, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leaverequest.Days(day(tt.start), day(tt.end), tt.isHalfDay)
			assert.Equal(t, tt.want, got)
		})
	}
}
