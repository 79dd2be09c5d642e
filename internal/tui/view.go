package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lay layout
	lay.contentH = max(4, m.height-headerHeight-footerHeight)
	lay.contentW = max(10, m.width)
	if m.sidebar != sidebarNone {
		lay.sidebarW = m.cfg.SidebarWidth
		lay.mapX = lay.sidebarW + 1
	}
	lay.mapY = headerHeight
	lay.mapW = max(10, lay.contentW-lay.sidebarW-1)
	lay.mapH = lay.contentH
	return lay
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	header := titleStyle.Render(fmt.Sprintf(" geomap ─ terminal geospatial viewer ─ %d datasets ", m.coll.Len()))
	header = lipgloss.NewStyle().Width(lay.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	switch m.sidebar {
	case sidebarFiles:
		m.l.SetSize(lay.sidebarW-2, lay.contentH-2)
		sidebar = lipgloss.NewStyle().Width(lay.sidebarW).Render(m.l.View())
	case sidebarDatasets:
		m.panel.l.SetSize(lay.sidebarW-2, lay.contentH-2)
		sidebar = lipgloss.NewStyle().Width(lay.sidebarW).Render(m.panel.l.View())
	}

	mapW, mapH := max(8, lay.mapW), max(4, lay.mapH)
	var mapView string
	if m.showAttrs {
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentW-6)
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		var ascii string
		if m.pasteMode {
			m.ta.SetWidth(mapW)
			m.ta.SetHeight(min(mapH, 12))
			ascii = m.ta.View()
		} else {
			ascii = m.renderAsciiMap(mapW, mapH)
		}
		// plain map canvas: no border, no background highlight
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(ascii)
	}

	// inspect popup box (center-left overlay, not in map column)
	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := max(20, min(56, lay.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(lay.contentW, lay.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.sidebar != sidebarNone {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	// mouse coords at bottom-right
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"d datasets",
	}
	switch m.sidebar {
	case sidebarFiles:
		keys = append(keys, "Enter add", "o open")
	case sidebarDatasets:
		keys = append(keys, "Space show/hide", "x remove", "r reload")
	}
	keys = append(keys,
		"X clear",
		"p paste",
		"a attrs",
		"i inspect",
		"l layers",
		"h help",
		"q quit",
	)
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
