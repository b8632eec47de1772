package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/adcanvas/pkg/placement"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ZoneListModel - Interactive zone browser
// =============================================================================

// zoneRow is one measured zone with its scrim decision.
type zoneRow struct {
	Stats placement.ZoneStats
	Scrim placement.Scrim
	Role  string // "headline", "cta" or empty when the plan did not pick it
}

// newZoneRows measures every zone and marks the ones the plan chose.
func newZoneRows(stats []placement.ZoneStats, plan placement.Plan, t placement.Tuning) []zoneRow {
	rows := make([]zoneRow, len(stats))
	for i, s := range stats {
		rows[i] = zoneRow{Stats: s, Scrim: placement.BuildScrim(s, t)}
		switch s.Zone.Name {
		case plan.Headline.Zone:
			rows[i].Role = "headline"
		case plan.CTA.Zone:
			rows[i].Role = "cta"
		}
	}
	return rows
}

// ZoneListModel is the bubbletea model for browsing zone measurements.
type ZoneListModel struct {
	Rows   []zoneRow
	Plan   placement.Plan
	Title  string
	Cursor int
}

// NewZoneListModel creates a new zone list model.
func NewZoneListModel(title string, rows []zoneRow, plan placement.Plan) ZoneListModel {
	return ZoneListModel{Rows: rows, Plan: plan, Title: title}
}

func (m ZoneListModel) Init() tea.Cmd {
	return nil
}

func (m ZoneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Rows) - 1
		}
	}
	return m, nil
}

func (m ZoneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderZoneTable(m.Rows, m.Cursor))
	b.WriteString("\n\n")
	if m.Cursor >= 0 && m.Cursor < len(m.Rows) {
		b.WriteString(renderZoneDetail(m.Rows[m.Cursor]))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · confidence %.2f · [%d/%d]",
		m.Plan.Source, m.Plan.Confidence, m.Cursor+1, len(m.Rows))))

	return b.String()
}

// renderZoneTable draws the zone measurements. cursor < 0 highlights nothing.
func renderZoneTable(rows []zoneRow, cursor int) string {
	data := make([][]string, 0, len(rows))
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		scrim := "—"
		if r.Scrim.Enabled {
			scrim = fmt.Sprintf("%.2f", r.Scrim.Opacity)
		}
		role := r.Role
		if role == "" {
			role = "—"
		}
		data = append(data, []string{
			marker,
			r.Stats.Zone.Name,
			string(r.Stats.Zone.Band),
			fmt.Sprintf("%.3f", r.Stats.Clutter),
			fmt.Sprintf("%.3f", r.Stats.Luminance),
			r.Stats.TextColor,
			fmt.Sprintf("%.2f", r.Stats.Contrast),
			scrim,
			role,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Zone", "Band", "Clutter", "Lum", "Text", "Contrast", "Scrim", "Picked").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case row == cursor:
				return listSelectedStyle
			case rows[row].Role != "":
				return lipgloss.NewStyle().Foreground(colorGreen)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	return t.Render()
}

// renderZoneDetail explains one zone's numbers.
func renderZoneDetail(r zoneRow) string {
	var b strings.Builder
	z := r.Stats.Zone
	fmt.Fprintf(&b, "  %s  %s\n", StyleHighlight.Render(z.Name),
		StyleDim.Render(fmt.Sprintf("x %.2f  y %.2f  %.2f × %.2f  align %s", z.Rect.X, z.Rect.Y, z.Rect.W, z.Rect.H, z.Align)))
	fmt.Fprintf(&b, "  %s\n", StyleDim.Render(fmt.Sprintf("contrast vs white %.2f · vs black %.2f",
		r.Stats.ContrastWhite, r.Stats.ContrastBlack)))
	if r.Scrim.Enabled {
		fmt.Fprintf(&b, "  %s\n", StyleDim.Render(fmt.Sprintf("scrim %s at %.0f%%", r.Scrim.Color, r.Scrim.Opacity*100)))
	} else {
		fmt.Fprintf(&b, "  %s\n", StyleDim.Render("no scrim needed"))
	}
	return b.String()
}
