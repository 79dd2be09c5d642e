package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"geomap/internal/collection"
	"geomap/internal/dataset"
	"geomap/internal/geom"
)

const pasteLabelPrefix = "paste:"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lay := m.layout()
		m.l.SetSize(lay.sidebarW-2, lay.contentH-2)
		m.panel.l.SetSize(lay.sidebarW-2, lay.contentH-2)
		return m, nil
	case loadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case fileChangedMsg:
		m.status = "reloading " + filepath.Base(msg.path)
		cmds := []tea.Cmd{m.loadCmd([]string{msg.path}, true, false)}
		if m.watcher != nil {
			cmds = append(cmds, waitForChange(m.watcher))
		}
		return m, tea.Batch(cmds...)
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.sidebar == sidebarFiles && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case tea.MouseMsg:
		m.updateHover(msg.X, msg.Y)
	}
	// Pass remaining messages to the visible list
	var cmd tea.Cmd
	switch m.sidebar {
	case sidebarFiles:
		m.l, cmd = m.l.Update(msg)
	case sidebarDatasets:
		m.panel.l, cmd = m.panel.l.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		d, err := geom.ParseWKTData(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.pastes++
		ds := dataset.New(pasteLabelPrefix+strconv.Itoa(m.pastes), d)
		m.coll.Add(ds, false)
		// reset viewport for immediate visibility
		m.zoom = 1.0
		m.offsetX, m.offsetY = 0, 0
		m.status = fmt.Sprintf("added %s  counts: pts=%d ls=%d poly=%d", ds.Label, len(d.Points), len(d.Lines), len(d.Polygons))
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey runs global commands. Keys it does not handle go to the list.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.Close()
		return m, tea.Quit, true
	case "1":
		m.showPoints = !m.showPoints
		m.status = fmt.Sprintf("points: %v", m.showPoints)
	case "2":
		m.showLines = !m.showLines
		m.status = fmt.Sprintf("lines: %v", m.showLines)
	case "3":
		m.showPolys = !m.showPolys
		m.status = fmt.Sprintf("polys: %v", m.showPolys)
	case "l":
		// toggle all layers
		all := m.showPoints && m.showLines && m.showPolys
		m.showPoints = !all
		m.showLines = !all
		m.showPolys = !all
		m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "tab":
		if m.sidebar == sidebarFiles {
			m.sidebar = sidebarNone
		} else {
			m.sidebar = sidebarFiles
			m.refreshDir()
		}
	case "d":
		if m.sidebar == sidebarDatasets {
			m.sidebar = sidebarNone
		} else {
			m.sidebar = sidebarDatasets
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "i":
		m.inspect()
	case "esc":
		m.inspectPopup = ""
		m.showAttrs = false
	case "enter", "o":
		if m.sidebar != sidebarFiles {
			return m, nil, false
		}
		p, ok := m.openSelected()
		if !ok {
			return m, nil, true
		}
		replace := msg.String() == "o"
		m.status = "loading " + filepath.Base(p)
		return m, m.loadCmd([]string{p}, false, replace), true
	case " ":
		if row := m.panel.selectedRow(); m.sidebar == sidebarDatasets && row >= 0 {
			v, _ := m.coll.Data(row, collection.RoleVisible).(bool)
			m.coll.SetData(row, !v, collection.RoleVisible)
			m.status = fmt.Sprintf("%s visible: %v", m.coll.Data(row, collection.RoleDisplay), !v)
		}
	case "x", "delete":
		if row := m.panel.selectedRow(); m.sidebar == sidebarDatasets && row >= 0 {
			name := m.coll.Data(row, collection.RoleDisplay)
			m.coll.RemoveRows(row, 1)
			m.status = fmt.Sprintf("removed %s", name)
			m.afterDatasetsChanged()
		}
	case "X":
		m.coll.Clear()
		m.status = "cleared all datasets"
		m.afterDatasetsChanged()
	case "r":
		if row := m.panel.selectedRow(); m.sidebar == sidebarDatasets && row >= 0 {
			label, _ := m.coll.Data(row, collection.RoleLabel).(string)
			if strings.HasPrefix(label, pasteLabelPrefix) {
				m.status = "pasted data cannot be reloaded"
				return m, nil, true
			}
			m.status = "reloading " + filepath.Base(label)
			return m, m.loadCmd([]string{label}, true, false), true
		}
	case "up", "down":
		if m.sidebar != sidebarNone {
			return m, nil, false
		}
		if msg.String() == "up" {
			m.offsetY--
		} else {
			m.offsetY++
		}
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	default:
		return m, nil, false
	}
	return m, nil, true
}

// applyLoaded adds finished loads to the collection. This is the only
// place loader output reaches it.
func (m *Model) applyLoaded(msg loadedMsg) {
	var added, reloaded int
	var failed []string
	for _, r := range msg.results {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", filepath.Base(r.Path), r.Err))
			continue
		}
		if msg.replace && added == 0 {
			// "open" keeps the old datasets until something new arrived
			m.coll.Clear()
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
		}
		before := m.coll.Len()
		m.coll.Add(r.Dataset, r.Reloaded)
		if m.coll.Len() == before {
			reloaded++
		}
		added++
		m.log.WithFields(logrus.Fields{
			"path":     r.Path,
			"id":       r.Dataset.ID.String(),
			"reloaded": r.Reloaded,
		}).Info("dataset added")
	}
	switch {
	case len(failed) > 0:
		m.status = "load error: " + strings.Join(failed, "; ")
	case reloaded == added && added == 1:
		m.status = "reloaded: " + filepath.Base(msg.results[0].Path)
	case added == 1:
		d := msg.results[0].Dataset
		m.status = "loaded: " + filepath.Base(msg.results[0].Path) +
			fmt.Sprintf("  counts: pts=%d ls=%d poly=%d", len(d.Data.Points), len(d.Data.Lines), len(d.Data.Polygons))
	default:
		m.status = fmt.Sprintf("loaded %d files", added)
	}
	m.afterDatasetsChanged()
}

// afterDatasetsChanged keeps the attributes view pointing at a dataset that exists.
func (m *Model) afterDatasetsChanged() {
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
	m.inspectPopup = ""
}

func (m *Model) inspect() {
	lay := m.layout()
	vp, ok := m.viewport(lay.mapW, lay.mapH)
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	// nearest vertex to the viewport center
	pt, _, _, d, found := m.nearestVertex(vp, lay.mapW, lay.mapH*2)
	if !found {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	row, _ := m.coll.Row(d.ID)
	bb := d.Data.BBox
	meta := []string{
		fmt.Sprintf("name: %s", m.coll.Data(row, collection.RoleDisplay)),
		fmt.Sprintf("path: %s", d.Label),
		fmt.Sprintf("id: %s  row: %d  kind: %s", d.ID, row, d.Kind),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY),
		fmt.Sprintf("counts: pts=%d ls=%d poly=%d", len(d.Data.Points), len(d.Data.Lines), len(d.Data.Polygons)),
		fmt.Sprintf("nearest: lon=%.6f lat=%.6f", pt[0], pt[1]),
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

// updateHover tracks the vertex nearest to the mouse within the map area.
func (m *Model) updateHover(x, y int) {
	lay := m.layout()
	if x < lay.mapX || x >= lay.mapX+lay.mapW || y < lay.mapY || y >= lay.mapY+lay.mapH {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	vp, ok := m.viewport(lay.mapW, lay.mapH)
	if !ok {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	cx, cy := x-lay.mapX, y-lay.mapY
	m.hoverLon, m.hoverLat, m.hoverHasGeo = vp.cellToLonLat(cx, cy)
	_, mx, my, _, found := m.nearestVertex(vp, cx*2, cy*4)
	m.hovering = found
	m.hoverMicX, m.hoverMicY = mx, my
}
