package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []TimeString{"00:00", "09:30", "23:59", "12:05"}
	for _, v := range valid {
		assert.NoError(t, v.Validate(), "%s", v)
	}

	invalid := []TimeString{"", "24:00", "9:30", "12:60", "12-30", "12:3", "ab:cd"}
	for _, v := range invalid {
		assert.Error(t, v.Validate(), "%s", v)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, m)

	m, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = TimeString("25:00").Minutes()
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), got)

	got, err = TimeString("23:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:15"), got, "конец дня не заворачивается на следующий день")
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:00"))
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, time.March, 1, 9, 5, 30, 0, time.UTC)
	assert.Equal(t, TimeString("09:05"), NewTimeString(moment))

	assert.Equal(t, TimeString("00:00"), NewTimeStringFromMinutes(-10))
	assert.Equal(t, TimeString("01:30"), NewTimeStringFromMinutes(90))
}
