package ui

import (
	"fmt"
	"strings"

	"github.com/pitwall/paddock/internal/mcapd"
)

// plotTrack rasterizes geometry coordinates onto a character grid. Longitude
// maps to columns and latitude to rows, with latitude inverted so north is up.
// Degenerate extents (single point, vertical or horizontal line) still land
// inside the grid.
func plotTrack(points []mcapd.Coordinate, width, height int) []string {
	if width < 2 || height < 2 || len(points) == 0 {
		return nil
	}

	minLon, maxLon := points[0].Lon, points[0].Lon
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, p := range points[1:] {
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
	}

	lonSpan := maxLon - minLon
	latSpan := maxLat - minLat

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		x := 0
		if lonSpan > 0 {
			x = int((p.Lon - minLon) / lonSpan * float64(width-1))
		}
		y := 0
		if latSpan > 0 {
			y = int((maxLat - p.Lat) / latSpan * float64(height-1))
		}
		grid[y][x] = '•'
	}

	// Mark start and end so direction of travel is readable.
	sx, sy := projectPoint(points[0], minLon, maxLat, lonSpan, latSpan, width, height)
	ex, ey := projectPoint(points[len(points)-1], minLon, maxLat, lonSpan, latSpan, width, height)
	grid[sy][sx] = 'S'
	grid[ey][ex] = 'E'

	lines := make([]string, height)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

func projectPoint(p mcapd.Coordinate, minLon, maxLat, lonSpan, latSpan float64, width, height int) (int, int) {
	x, y := 0, 0
	if lonSpan > 0 {
		x = int((p.Lon - minLon) / lonSpan * float64(width-1))
	}
	if latSpan > 0 {
		y = int((maxLat - p.Lat) / latSpan * float64(height-1))
	}
	return x, y
}

// renderMapModal shows the GPS track for the selected recording.
func (m Model) renderMapModal() string {
	styles := m.theme.Styles()

	modalWidth := minInt(maxInt(m.width-10, 40), 80)
	plotWidth := modalWidth - 6
	plotHeight := maxInt(minInt(m.height-12, 24), 8)

	var b strings.Builder
	m.modalTitle(&b, fmt.Sprintf("Track map #%d", m.view.Modal.LogID), modalWidth)

	var points []mcapd.Coordinate
	if m.view.Modal.Geometry != nil {
		points = m.view.Modal.Geometry.TrackPoints()
	}

	if len(points) == 0 {
		b.WriteString(styles.MutedText.Render("No track geometry available for this recording."))
		b.WriteString("\n")
	} else {
		for _, line := range plotTrack(points, plotWidth, plotHeight) {
			b.WriteString(styles.AccentText.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d points  •  S start  •  E end", len(points))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Esc: Close"))

	return m.overlay(b.String(), modalWidth)
}
