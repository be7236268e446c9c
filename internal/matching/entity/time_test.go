package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow_ReturnsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now().Location())
}

func TestDateOnly_TruncatesToCalendarDayUTC(t *testing.T) {
	t1 := time.Date(2026, 7, 30, 23, 45, 0, 0, time.FixedZone("test", 7*3600))
	got := DateOnly(t1)
	assert.Equal(t, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC), got)
}

func TestDateOnly_CrossesDayBoundaryInUTC(t *testing.T) {
	// 22:00 in UTC-5 is 03:00 UTC on the following day.
	t1 := time.Date(2026, 7, 30, 22, 0, 0, 0, time.FixedZone("west", -5*3600))
	got := DateOnly(t1)
	assert.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), got)
}
