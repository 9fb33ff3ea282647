// Package ui renders pollen forecasts for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pollenow/pollenow/internal/pollen"
)

// Levels at or above highLevel trigger the outdoor-activity warning.
const (
	highLevel = 4
	lowLevel  = 2
)

// Result is a forecast ready for display.
type Result struct {
	Place    string
	Forecast *pollen.Forecast
	Cached   bool
	CacheAge time.Duration
}

// RenderForecast writes the forecast table.
func RenderForecast(w io.Writer, r *Result) {
	f := r.Forecast
	fmt.Fprintln(w, titleStyle.Render("Pollenow - Pollen Forecast"))

	placeLine := subtleStyle.Render(r.Place)
	if r.Cached {
		placeLine += " " + subtleStyle.Italic(true).Render(fmt.Sprintf("(cached %dm ago)", int(r.CacheAge.Minutes())))
	}
	fmt.Fprintln(w, placeLine)
	fmt.Fprintln(w)

	if len(f.Days) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No forecast data available."))
		return
	}

	today := f.Days[0]
	if summary := buildSummary(today.PollenLevels); summary != "" {
		fmt.Fprintln(w, summary)
		fmt.Fprintln(w)
	}

	inSeason := false
	rows := make([][]string, 0, len(f.Days))
	for _, day := range f.Days {
		levels := day.PollenLevels
		grass, g := formatCell(levels.Grass)
		tree, t := formatCell(levels.Tree)
		weed, wd := formatCell(levels.Weed)
		inSeason = inSeason || g || t || wd
		rows = append(rows, []string{day.DayName, grass, tree, weed})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Day", "Grass", "Tree", "Weed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t)

	if inSeason {
		fmt.Fprintln(w, subtleStyle.Italic(true).Render("* = in season"))
	}

	if len(today.HealthRecommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Health Recommendations"))
		for _, rec := range today.HealthRecommendations {
			fmt.Fprintln(w, subtleStyle.Render("  • "+rec))
		}
	}
}

// RenderCompact writes a one-line summary of today's levels.
func RenderCompact(w io.Writer, r *Result) {
	f := r.Forecast
	if len(f.Days) == 0 {
		fmt.Fprintln(w, "No forecast data available.")
		return
	}

	levels := f.Days[0].PollenLevels
	parts := []string{
		"Grass " + compactLevel(levels.Grass),
		"Tree " + compactLevel(levels.Tree),
		"Weed " + compactLevel(levels.Weed),
	}
	fmt.Fprintf(w, "%s: %s\n", r.Place, strings.Join(parts, " | "))
}

// RenderError writes a styled error message.
func RenderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

func buildSummary(levels pollen.PollenLevels) string {
	named := []struct {
		name  string
		level pollen.PollenLevel
	}{
		{"Grass", levels.Grass},
		{"Tree", levels.Tree},
		{"Weed", levels.Weed},
	}

	var worst *pollen.PollenLevel
	worstName := ""
	for i := range named {
		l := named[i].level
		if l.Level == nil || *l.Level < highLevel {
			continue
		}
		if worst == nil || *l.Level > *worst.Level {
			worst, worstName = &named[i].level, named[i].name
		}
	}
	if worst != nil {
		return warningStyle.Render(fmt.Sprintf("%s pollen is %s today, consider limiting outdoor activity",
			worstName, strings.ToUpper(worst.Category)))
	}

	for _, n := range named {
		if n.level.Level != nil && *n.level.Level > lowLevel {
			return ""
		}
	}
	return successStyle.Render("All pollen levels are low today")
}

func formatCell(level pollen.PollenLevel) (string, bool) {
	style := categoryStyle(level.Category)
	if level.Level == nil {
		return style.Render("- No Data"), false
	}

	cell := style.Render(fmt.Sprintf("■ %d %s", *level.Level, abbreviateCategory(level.Category)))
	if level.InSeason {
		cell += " *"
	}
	return cell, level.InSeason
}

func abbreviateCategory(category string) string {
	switch category {
	case "Very Low":
		return "V.Low"
	case "Moderate":
		return "Mod"
	case "Very High":
		return "V.High"
	default:
		return category
	}
}

func compactLevel(level pollen.PollenLevel) string {
	if level.Level == nil {
		return "N/A"
	}
	if *level.Level >= highLevel {
		return strings.ToUpper(level.Category)
	}
	return level.Category
}

// RenderSuccess writes a styled confirmation line.
func RenderSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}
