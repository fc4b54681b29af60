package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_UsesWallClockOfTheGivenZone(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	// 23:30 UTC del 4 de enero ya es 5 de enero en Varsovia.
	ts := time.Date(2024, 1, 4, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, MustParse("2024-01-04"), Of(ts))
	assert.Equal(t, MustParse("2024-01-05"), Of(ts.In(warsaw)))
	assert.Equal(t, MustParse("2024-01-05"), Today(ts, warsaw))
}

func TestParse(t *testing.T) {
	d, err := Parse(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.DayOfMonth())

	legacy, err := Parse("2024-01-05T10:11:12.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", legacy.String())

	// El offset del propio timestamp decide el día.
	late, err := Parse("2024-01-05T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", late.String())
	early, err := Parse("2024-01-06T00:30:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", early.String())

	_, err = Parse("2024-13-01")
	assert.Error(t, err)
	_, err = Parse("yesterday")
	assert.Error(t, err)
}

func TestCompareAndBetween(t *testing.T) {
	start := MustParse("2024-01-01")
	end := MustParse("2024-01-10")

	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
	assert.Equal(t, 0, start.Compare(New(2024, time.January, 1)))

	assert.True(t, start.Between(&start, &end))
	assert.True(t, end.Between(&start, &end))
	assert.False(t, start.AddDays(-1).Between(&start, &end))
	assert.False(t, end.AddDays(1).Between(&start, &end))
	assert.True(t, end.AddDays(100).Between(&start, nil))
	assert.True(t, start.Between(nil, nil))
}

func TestAddDays_CrossesMonthAndYear(t *testing.T) {
	assert.Equal(t, MustParse("2024-03-01"), MustParse("2024-02-28").AddDays(2))
	assert.Equal(t, MustParse("2023-12-31"), MustParse("2024-01-01").AddDays(-1))
}

func TestJSONAndSQLRoundTrip(t *testing.T) {
	type payload struct {
		Day Day `json:"day"`
	}
	b, err := json.Marshal(payload{Day: MustParse("2024-01-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-01-05"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-01-06"}`), &p))
	assert.Equal(t, MustParse("2024-01-06"), p.Day)

	v, err := MustParse("2024-01-05").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", v)

	var scanned Day
	require.NoError(t, scanned.Scan(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MustParse("2024-01-05"), scanned)
	require.NoError(t, scanned.Scan([]byte("2024-01-07")))
	assert.Equal(t, MustParse("2024-01-07"), scanned)
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
	assert.Error(t, scanned.Scan(42))
}
