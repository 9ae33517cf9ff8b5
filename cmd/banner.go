package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	service "github.com/okian/portfolio/internal/app"
	"github.com/okian/portfolio/internal/domain/model"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

type bannerInfo struct {
	URL            string
	Environment    string
	RuntimeVersion string
	StartedAt      time.Time
}

// printBanner writes the startup summary shown once the listener is bound.
func printBanner(w io.Writer, info bannerInfo) {
	rows := [][2]string{
		{"Server", info.URL},
		{"Environment", info.Environment},
		{"Go Version", info.RuntimeVersion},
		{"Started at", info.StartedAt.Local().Format(model.LocalTimeLayout)},
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, styleTitle.Render(service.ServerName+" Started"))
	for _, row := range rows {
		lines = append(lines, styleLabel.Render(row[0]+":")+" "+row[1])
	}
	_, _ = fmt.Fprintln(w, styleBox.Render(strings.Join(lines, "\n")))
}
