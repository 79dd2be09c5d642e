package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"geomap/internal/collection"
	"geomap/internal/config"
	"geomap/internal/loader"
	"geomap/internal/logging"
)

type sidebarMode int

const (
	sidebarNone sidebarMode = iota
	sidebarFiles
	sidebarDatasets
)

// Model is the bubbletea model. Its Update runs on the program goroutine,
// which is the only goroutine allowed to mutate coll.
type Model struct {
	width  int
	height int

	sidebar     sidebarMode
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd   string
	l     list.Model
	items []list.Item

	// Loaded datasets, in draw order
	coll    *collection.Collection
	panel   *datasetPanel
	ld      *loader.Loader
	watcher *loader.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	preload []string

	cfg config.Config
	log *logrus.Entry

	// paste mode
	pasteMode bool
	pastes    int
	ta        textarea.Model

	// layer visibility, applied to every dataset
	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

type Option func(*Model)

func WithConfig(cfg config.Config) Option { return func(m *Model) { m.cfg = cfg } }

func WithLogger(l *logrus.Entry) Option { return func(m *Model) { m.log = l } }

// WithFiles loads paths when the program starts, in order.
func WithFiles(paths ...string) Option {
	return func(m *Model) { m.preload = append(m.preload, paths...) }
}

func New(opts ...Option) Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "geomap ready",
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
		cfg:         config.Default(),
	}
	for _, o := range opts {
		o(&m)
	}
	if m.log == nil {
		m.log = logging.NewLogger("tui")
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON). Press Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.ld = loader.New(loader.WithConcurrency(m.cfg.Concurrency), loader.WithLogger(logging.NewLogger("loader")))
	m.coll = collection.New()
	m.panel = newDatasetPanel()
	m.coll.Subscribe(m.panel)
	if m.cfg.Watch {
		w, err := loader.NewWatcher(time.Duration(m.cfg.DebounceMS)*time.Millisecond, logging.NewLogger("watcher"))
		if err != nil {
			m.log.WithError(err).Warn("file watching disabled")
		} else {
			m.watcher = w
			m.coll.Subscribe(newWatchSync(w, m.log))
		}
	}
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if len(m.preload) > 0 {
		cmds = append(cmds, m.loadCmd(m.preload, false, false))
	}
	if m.watcher != nil {
		cmds = append(cmds, runWatcher(m.ctx, m.watcher), waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Collection exposes the dataset collection, mainly for tests.
func (m Model) Collection() *collection.Collection { return m.coll }

// Close stops background loads and the watcher.
func (m Model) Close() {
	m.cancel()
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}
