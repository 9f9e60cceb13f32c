package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("@daily"))
	assert.Error(t, ValidateSchedule("every night"))
	assert.Error(t, ValidateSchedule("0 3 * *"))
}

func TestScheduler_Reschedule(t *testing.T) {
	s := NewScheduler(func(context.Context) {}, nil)
	s.Start()
	defer s.Stop()

	require.NoError(t, s.Reschedule("0 3 * * *", true))
	assert.Equal(t, "0 3 * * *", s.Current())
	assert.Len(t, s.cron.Entries(), 1)

	require.NoError(t, s.Reschedule("*/15 * * * *", true))
	assert.Equal(t, "*/15 * * * *", s.Current())
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.Reschedule("nonsense", true))
	assert.Equal(t, "*/15 * * * *", s.Current(), "invalid schedule keeps the old one")

	require.NoError(t, s.Reschedule("nonsense", false))
	assert.Equal(t, "", s.Current())
	assert.Empty(t, s.cron.Entries())
}
