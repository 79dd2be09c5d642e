package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geomap/internal/loader"
)

type fileItem struct {
	title, desc string
	path        string
	isDir       bool
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists subdirectories first, then files the loader supports.
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var dirs, files []list.Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(m.cwd, name)
		if e.IsDir() {
			dirs = append(dirs, fileItem{title: name + "/", desc: "dir", path: p, isDir: true})
			continue
		}
		if loader.Supported(name) {
			files = append(files, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: p})
		}
	}
	byTitle := func(s []list.Item) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].(fileItem).Title() < s[j].(fileItem).Title() })
	}
	byTitle(dirs)
	byTitle(files)
	items := []list.Item{fileItem{title: "../", desc: "dir", path: filepath.Dir(m.cwd), isDir: true}}
	items = append(items, dirs...)
	items = append(items, files...)
	m.items = items
	m.l.SetItems(items)
	m.l.Title = "Files " + filepath.Base(m.cwd)
	if len(files) == 0 {
		m.status = "no supported files in " + m.cwd
	}
}

// openSelected enters a directory, or returns the selected file path.
func (m *Model) openSelected() (string, bool) {
	it, ok := m.l.SelectedItem().(fileItem)
	if !ok {
		return "", false
	}
	if it.isDir {
		m.cwd = it.path
		m.l.ResetFilter()
		m.l.Select(0)
		m.refreshDir()
		return "", false
	}
	return it.path, true
}
