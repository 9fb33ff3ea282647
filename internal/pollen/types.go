package pollen

import "github.com/pollenow/pollenow/internal/location"

// RawForecastResponse mirrors the Google Pollen API forecast:lookup body.
type RawForecastResponse struct {
	DailyInfo  []DailyInfo `json:"dailyInfo"`
	RegionCode string      `json:"regionCode,omitempty"`
}

type DailyInfo struct {
	Date           DateInfo         `json:"date"`
	PollenTypeInfo []PollenTypeInfo `json:"pollenTypeInfo"`
	PlantInfo      []PlantInfo      `json:"plantInfo,omitempty"`
}

type DateInfo struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// PollenTypeInfo is one of GRASS, TREE or WEED.
type PollenTypeInfo struct {
	Code                  string     `json:"code"`
	DisplayName           string     `json:"displayName"`
	HealthRecommendations []string   `json:"healthRecommendations,omitempty"`
	InSeason              bool       `json:"inSeason,omitempty"`
	IndexInfo             *IndexInfo `json:"indexInfo,omitempty"`
}

// IndexInfo is a Universal Pollen Index reading.
type IndexInfo struct {
	Code             string `json:"code"`
	DisplayName      string `json:"displayName"`
	Value            int    `json:"value"`    // 0-5
	Category         string `json:"category"` // "None" through "Very High"
	IndexDescription string `json:"indexDescription"`
	Color            Color  `json:"color"`
}

// Color channels are 0.0-1.0.
type Color struct {
	Red   float64 `json:"red,omitempty"`
	Green float64 `json:"green,omitempty"`
	Blue  float64 `json:"blue,omitempty"`
}

type PlantInfo struct {
	Code        string     `json:"code"`
	DisplayName string     `json:"displayName"`
	InSeason    bool       `json:"inSeason,omitempty"`
	IndexInfo   *IndexInfo `json:"indexInfo,omitempty"`
}

// PollenLevel is the display form of one pollen type. Level is nil when the
// API has no index for the day.
type PollenLevel struct {
	Level    *int   `json:"level"`
	Category string `json:"category"`
	InSeason bool   `json:"inSeason"`
	Color    *Color `json:"color,omitempty"`
}

type PollenLevels struct {
	Grass PollenLevel `json:"grass"`
	Tree  PollenLevel `json:"tree"`
	Weed  PollenLevel `json:"weed"`
}

type DayForecast struct {
	Date                  string       `json:"date"`
	DayName               string       `json:"dayName"`
	PollenLevels          PollenLevels `json:"pollenLevels"`
	HealthRecommendations []string     `json:"healthRecommendations"`
}

// Forecast is a formatted forecast.
type Forecast struct {
	RegionCode string        `json:"regionCode"`
	TotalDays  int           `json:"totalDays"`
	Days       []DayForecast `json:"days"`
}

type ForecastLocation struct {
	ZipCode     string                `json:"zipCode"`
	Coordinates *location.Coordinates `json:"coordinates"`
}

type ForecastMeta struct {
	RegionCode    string `json:"regionCode"`
	TotalDays     int    `json:"totalDays"`
	DaysRequested int    `json:"daysRequested"`
	Timestamp     string `json:"timestamp"`
	Cached        bool   `json:"cached"`
}

// ForecastData is the payload of a successful forecast response.
type ForecastData struct {
	Location     ForecastLocation `json:"location"`
	Forecast     []DayForecast    `json:"forecast"`
	TodaySummary *DayForecast     `json:"todaySummary"`
	Meta         ForecastMeta     `json:"meta"`
}
