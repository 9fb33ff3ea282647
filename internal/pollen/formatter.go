package pollen

import (
	"fmt"
	"time"
)

const (
	maxRecommendations = 3
	unknownRegion      = "Unknown"
	noDataCategory     = "No Data"
)

// Format turns a raw API response into display-ready days. Days are named by
// position (Today, Tomorrow, then weekday) so the server's time zone never
// shifts the labels.
func Format(raw *RawForecastResponse) *Forecast {
	if raw == nil {
		return &Forecast{RegionCode: unknownRegion, Days: []DayForecast{}}
	}

	regionCode := raw.RegionCode
	if regionCode == "" {
		regionCode = unknownRegion
	}

	days := make([]DayForecast, 0, len(raw.DailyInfo))
	for i, day := range raw.DailyInfo {
		days = append(days, DayForecast{
			Date:    fmt.Sprintf("%d-%02d-%02d", day.Date.Year, day.Date.Month, day.Date.Day),
			DayName: dayName(i, day.Date),
			PollenLevels: PollenLevels{
				Grass: extractLevel(day.PollenTypeInfo, "GRASS"),
				Tree:  extractLevel(day.PollenTypeInfo, "TREE"),
				Weed:  extractLevel(day.PollenTypeInfo, "WEED"),
			},
			HealthRecommendations: extractRecommendations(day.PollenTypeInfo),
		})
	}

	return &Forecast{
		RegionCode: regionCode,
		TotalDays:  len(days),
		Days:       days,
	}
}

func extractLevel(types []PollenTypeInfo, code string) PollenLevel {
	for _, p := range types {
		if p.Code != code {
			continue
		}
		if p.IndexInfo == nil {
			return PollenLevel{Category: noDataCategory}
		}
		value := p.IndexInfo.Value
		color := p.IndexInfo.Color
		return PollenLevel{
			Level:    &value,
			Category: p.IndexInfo.Category,
			InSeason: p.InSeason,
			Color:    &color,
		}
	}
	return PollenLevel{Category: noDataCategory}
}

// extractRecommendations keeps the first three distinct recommendations.
func extractRecommendations(types []PollenTypeInfo) []string {
	seen := make(map[string]bool)
	recs := []string{}

	for _, p := range types {
		for _, rec := range p.HealthRecommendations {
			if seen[rec] {
				continue
			}
			seen[rec] = true
			recs = append(recs, rec)
			if len(recs) == maxRecommendations {
				return recs
			}
		}
	}
	return recs
}

func dayName(index int, d DateInfo) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Weekday().String()
	}
}
