package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pollenow/pollenow/internal/pollen"
)

func level(n int, category string, inSeason bool) pollen.PollenLevel {
	return pollen.PollenLevel{Level: &n, Category: category, InSeason: inSeason}
}

func sampleForecast() *pollen.Forecast {
	return &pollen.Forecast{
		RegionCode: "US",
		TotalDays:  2,
		Days: []pollen.DayForecast{
			{
				Date:    "2025-04-01",
				DayName: "Today",
				PollenLevels: pollen.PollenLevels{
					Grass: level(1, "Very Low", false),
					Tree:  level(4, "High", true),
					Weed:  pollen.PollenLevel{Category: "No Data"},
				},
				HealthRecommendations: []string{"Keep windows closed."},
			},
			{
				Date:    "2025-04-02",
				DayName: "Tomorrow",
				PollenLevels: pollen.PollenLevels{
					Grass: level(2, "Low", false),
					Tree:  level(3, "Moderate", true),
					Weed:  pollen.PollenLevel{Category: "No Data"},
				},
				HealthRecommendations: []string{},
			},
		},
	}
}

func TestRenderCompact(t *testing.T) {
	var buf bytes.Buffer
	RenderCompact(&buf, &Result{Place: "New York, NY 10001, USA", Forecast: sampleForecast()})
	assert.Equal(t, "New York, NY 10001, USA: Grass Very Low | Tree HIGH | Weed N/A\n", buf.String())
}

func TestRenderCompact_NoDays(t *testing.T) {
	var buf bytes.Buffer
	RenderCompact(&buf, &Result{Place: "10001", Forecast: &pollen.Forecast{}})
	assert.Equal(t, "No forecast data available.\n", buf.String())
}

func TestRenderForecast(t *testing.T) {
	var buf bytes.Buffer
	RenderForecast(&buf, &Result{Place: "New York, NY 10001, USA", Forecast: sampleForecast()})

	out := buf.String()
	assert.Contains(t, out, "New York, NY 10001, USA")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "No Data")
	assert.Contains(t, out, "Tree pollen is HIGH today")
	assert.Contains(t, out, "* = in season")
	assert.Contains(t, out, "Keep windows closed.")
	assert.NotContains(t, out, "cached")
}

func TestRenderForecast_Cached(t *testing.T) {
	var buf bytes.Buffer
	RenderForecast(&buf, &Result{
		Place:    "94025",
		Forecast: sampleForecast(),
		Cached:   true,
		CacheAge: 12*time.Minute + 30*time.Second,
	})
	assert.Contains(t, buf.String(), "(cached 12m ago)")
}

func TestBuildSummary(t *testing.T) {
	low := pollen.PollenLevels{Grass: level(1, "Very Low", false), Tree: level(2, "Low", false)}
	assert.Contains(t, buildSummary(low), "All pollen levels are low today")

	moderate := pollen.PollenLevels{Grass: level(3, "Moderate", false)}
	assert.Empty(t, buildSummary(moderate))

	high := pollen.PollenLevels{Grass: level(4, "High", false), Weed: level(5, "Very High", false)}
	assert.Contains(t, buildSummary(high), "Weed pollen is VERY HIGH today")
}

func TestAbbreviateCategory(t *testing.T) {
	assert.Equal(t, "V.Low", abbreviateCategory("Very Low"))
	assert.Equal(t, "Mod", abbreviateCategory("Moderate"))
	assert.Equal(t, "V.High", abbreviateCategory("Very High"))
	assert.Equal(t, "High", abbreviateCategory("High"))
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "Error: boom")
}
