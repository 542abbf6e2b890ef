// Package chart renders category/score pairs as a radar chart. It consumes
// ordered entries only; axis order is the caller's ordering guarantee.
package chart

import (
	"fmt"
	"math"
	"strings"
)

// Entry is one axis of the chart.
type Entry struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // 0-100, clamped when rendering
}

const (
	svgSize   = 640
	svgRadius = 230
)

// SVG renders a radar chart. Axis i sits at angle 2π·i/N starting at twelve
// o'clock, scores sit on a 0-100 radial scale, and the polygon is closed by
// repeating the first point.
func SVG(entries []Entry, title string) string {
	var b strings.Builder
	cx, cy := float64(svgSize)/2, float64(svgSize)/2+10

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgSize, svgSize, svgSize, svgSize)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", svgSize, svgSize)
	if title != "" {
		fmt.Fprintf(&b, `<text x="%.0f" y="28" text-anchor="middle" font-family="sans-serif" font-size="18" font-weight="bold">%s</text>`+"\n",
			cx, escape(title))
	}

	if len(entries) == 0 {
		b.WriteString("</svg>\n")
		return b.String()
	}

	// Concentric gridlines at 20-point steps.
	for _, ring := range []float64{20, 40, 60, 80, 100} {
		r := svgRadius * ring / 100
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#d0d0d0" stroke-width="1"/>`+"\n", cx, cy, r)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" fill="#909090">%.0f</text>`+"\n",
			cx+3, cy-r-3, ring)
	}

	// Axes and labels.
	n := len(entries)
	for i, e := range entries {
		sin, cos := axisVector(i, n)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d0d0d0" stroke-width="1"/>`+"\n",
			cx, cy, cx+svgRadius*sin, cy-svgRadius*cos)

		lx, ly := cx+(svgRadius+22)*sin, cy-(svgRadius+22)*cos
		anchor := "middle"
		switch {
		case sin > 0.1:
			anchor = "start"
		case sin < -0.1:
			anchor = "end"
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="%s" font-family="sans-serif" font-size="13" font-weight="bold">%s</text>`+"\n",
			lx, ly, anchor, escape(e.Label))
	}

	// Score polygon, closed on the first point.
	points := make([]string, 0, n+1)
	for i, e := range entries {
		sin, cos := axisVector(i, n)
		r := svgRadius * clamp(e.Score) / 100
		points = append(points, fmt.Sprintf("%.1f,%.1f", cx+r*sin, cy-r*cos))
	}
	points = append(points, points[0])
	fmt.Fprintf(&b, `<polyline points="%s" fill="#ff6b6b" fill-opacity="0.25" stroke="#ff6b6b" stroke-width="2"/>`+"\n",
		strings.Join(points, " "))

	// Vertex markers.
	for i, e := range entries {
		sin, cos := axisVector(i, n)
		r := svgRadius * clamp(e.Score) / 100
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="4" fill="#ff6b6b"/>`+"\n", cx+r*sin, cy-r*cos)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// axisVector returns the unit vector for axis i of n, twelve o'clock first,
// clockwise.
func axisVector(i, n int) (sin, cos float64) {
	angle := 2 * math.Pi * float64(i) / float64(n)
	return math.Sin(angle), math.Cos(angle)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
