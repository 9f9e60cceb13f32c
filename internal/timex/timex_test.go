package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"90s","b":1000000000}`), &v))
	assert.Equal(t, 90*time.Second, v.A.Duration)
	assert.Equal(t, time.Second, v.B.Duration)

	out, err := json.Marshal(Duration{Duration: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"a":"soon"}`), &v))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 15m\nb: 2000000000\n"), &v))
	assert.Equal(t, 15*time.Minute, v.A.Duration)
	assert.Equal(t, 2*time.Second, v.B.Duration)
}

func TestFormat_FixedWidthAndOrdered(t *testing.T) {
	a := time.Date(2026, 1, 2, 9, 5, 3, 0, time.UTC)
	b := a.Add(1500 * time.Microsecond)
	c := time.Date(2026, 1, 2, 10, 0, 0, 0, time.FixedZone("X", 3600))

	fa, fb, fc := Format(a), Format(b), Format(c)
	assert.Equal(t, "2026-01-02T09:05:03.000000Z", fa)
	assert.Equal(t, "2026-01-02T09:00:00.000000Z", fc)
	assert.Len(t, fb, len(fa))
	assert.Less(t, fa, fb)
}

func TestParse_RoundTripAndLegacy(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 123456000, time.UTC)
	got, err := Parse(Format(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	legacy, err := Parse("2026-03-04T05:06:07.5+00:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, legacy.Location())

	_, err = Parse("yesterday")
	require.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 6, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestNullTime_Scan(t *testing.T) {
	var n NullTime
	require.NoError(t, n.Scan(nil))
	assert.Nil(t, n.Ptr())

	require.NoError(t, n.Scan("2025-03-01T08:30:00.000000Z"))
	require.NotNil(t, n.Ptr())
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC), *n.Ptr())

	require.NoError(t, n.Scan([]byte("2025-03-01T08:30:00Z")))
	assert.True(t, n.Valid)

	assert.Error(t, n.Scan(42))
	assert.Error(t, n.Scan("yesterday"))

	assert.Nil(t, FormatPtr(nil))
	ts := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01T08:30:00.000000Z", FormatPtr(&ts))
}
