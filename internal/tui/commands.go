package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"geomap/internal/loader"
)

// loadedMsg carries loader results back to the program goroutine.
type loadedMsg struct {
	results []loader.Result
	// replace clears the collection before adding, for "open" as opposed to "add"
	replace bool
}

// fileChangedMsg reports a tracked file that changed on disk.
type fileChangedMsg struct{ path string }

// loadCmd parses paths off the UI goroutine. The collection is only touched
// once the resulting loadedMsg reaches Update.
func (m Model) loadCmd(paths []string, reloaded, replace bool) tea.Cmd {
	ld, ctx := m.ld, m.ctx
	paths = append([]string(nil), paths...)
	return func() tea.Msg {
		results := ld.LoadAll(ctx, paths, reloaded)
		if ctx.Err() != nil {
			return nil
		}
		return loadedMsg{results: results, replace: replace}
	}
}

// waitForChange blocks until the watcher reports a change. Update re-arms
// it after every fileChangedMsg; it returns nil once the watcher is closed.
func waitForChange(w *loader.Watcher) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return fileChangedMsg{path: p}
	}
}

// runWatcher forwards file events until ctx is cancelled or the watcher is
// closed. It produces no message of its own.
func runWatcher(ctx context.Context, w *loader.Watcher) tea.Cmd {
	return func() tea.Msg {
		w.Run(ctx)
		return nil
	}
}
