// Package export renders recorded trajectories as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/physics"
)

// Series is one body's path in AU.
type Series struct {
	Name   string
	Color  string // any SVG color, e.g. "#ff8000"
	Points []physics.Point2
}

// TrajectoriesToSVG draws every series on a square canvas of size pixels with
// a shared, equal-aspect scale, so circular orbits stay circular. The newest
// point of each series is marked with a dot.
func TrajectoriesToSVG(series []Series, size int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Pad by 10% and keep the aspect ratio.
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(size) / span

	project := func(p physics.Point2) (float64, float64) {
		x := (p.X-cx)*scale + float64(size)/2
		y := float64(size)/2 - (p.Y-cy)*scale
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		color := s.Color
		if color == "" {
			color = "#b4b4b4"
		}

		if len(s.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
			for i, p := range s.Points {
				x, y := project(p)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(s.Points[len(s.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color))
		if s.Name != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#8c8c8c" font-family="monospace" font-size="10">%s</text>
`, x+5, y-5, escape(s.Name)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
