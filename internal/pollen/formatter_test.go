package pollen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw(t *testing.T) *RawForecastResponse {
	t.Helper()
	var raw RawForecastResponse
	require.NoError(t, json.Unmarshal([]byte(sampleResponse), &raw))
	return &raw
}

func TestFormat(t *testing.T) {
	f := Format(sampleRaw(t))

	assert.Equal(t, "us", f.RegionCode)
	assert.Equal(t, 2, f.TotalDays)
	require.Len(t, f.Days, 2)

	today := f.Days[0]
	assert.Equal(t, "2025-04-01", today.Date)
	assert.Equal(t, "Today", today.DayName)

	require.NotNil(t, today.PollenLevels.Grass.Level)
	assert.Equal(t, 2, *today.PollenLevels.Grass.Level)
	assert.Equal(t, "Low", today.PollenLevels.Grass.Category)
	assert.True(t, today.PollenLevels.Grass.InSeason)
	require.NotNil(t, today.PollenLevels.Grass.Color)
	assert.InDelta(t, 0.6, today.PollenLevels.Grass.Color.Green, 1e-9)

	assert.Equal(t, 4, *today.PollenLevels.Tree.Level)

	assert.Nil(t, today.PollenLevels.Weed.Level)
	assert.Equal(t, "No Data", today.PollenLevels.Weed.Category)

	assert.Equal(t, []string{"Keep windows closed", "Wear sunglasses", "Shower after being outside"}, today.HealthRecommendations)

	tomorrow := f.Days[1]
	assert.Equal(t, "Tomorrow", tomorrow.DayName)
	assert.Equal(t, "No Data", tomorrow.PollenLevels.Grass.Category)
	assert.Empty(t, tomorrow.HealthRecommendations)
	assert.NotNil(t, tomorrow.HealthRecommendations)
}

func TestFormat_WeekdayNames(t *testing.T) {
	raw := &RawForecastResponse{DailyInfo: []DailyInfo{
		{Date: DateInfo{2025, 4, 1}},
		{Date: DateInfo{2025, 4, 2}},
		{Date: DateInfo{2025, 4, 3}},
		{Date: DateInfo{2025, 4, 4}},
	}}

	f := Format(raw)
	assert.Equal(t, "Unknown", f.RegionCode)
	assert.Equal(t, "Thursday", f.Days[2].DayName)
	assert.Equal(t, "Friday", f.Days[3].DayName)
}

func TestExtractRecommendations_Limit(t *testing.T) {
	types := []PollenTypeInfo{
		{HealthRecommendations: []string{"a", "b"}},
		{HealthRecommendations: []string{"b", "c", "d"}},
	}
	assert.Equal(t, []string{"a", "b", "c"}, extractRecommendations(types))
}

func TestFormat_Nil(t *testing.T) {
	f := Format(nil)
	assert.Equal(t, "Unknown", f.RegionCode)
	assert.Empty(t, f.Days)
}

func TestExtractLevel_NoIndexIsNotInSeason(t *testing.T) {
	types := []PollenTypeInfo{{Code: "GRASS", InSeason: true}}

	level := extractLevel(types, "GRASS")
	assert.Nil(t, level.Level)
	assert.Equal(t, "No Data", level.Category)
	assert.False(t, level.InSeason)
	assert.Nil(t, level.Color)
}
