package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"geomap/internal/config"
	"geomap/internal/headless"
	"geomap/internal/logging"
	"geomap/internal/tui"
)

// Version is set at build time with -ldflags "-X geomap/internal/cli.Version=...".
var Version = "dev"

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "geomap [FILE...]",
		Short:        "Terminal geospatial viewer",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, cleanup, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			if !isTerminal(c.OutOrStdout()) {
				if len(args) == 0 {
					return fmt.Errorf("stdout is not a terminal: pass files to list them")
				}
				return listFiles(c, cfg, args)
			}

			m := tui.New(
				tui.WithConfig(cfg),
				tui.WithLogger(logging.NewLogger("tui")),
				tui.WithFiles(args...),
			)
			defer m.Close()
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return err
		},
	}

	config.BindFlags(cmd.PersistentFlags())
	cmd.AddCommand(lsCmd(), versionCmd())
	return cmd
}

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls FILE...",
		Short: "Load files and list the resulting datasets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, cleanup, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()
			return listFiles(c, cfg, args)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintln(c.OutOrStdout(), "geomap", Version)
		},
	}
}

// setup resolves the config for c and starts logging.
func setup(c *cobra.Command) (config.Config, func() error, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := config.Resolve(c.Flags(), wd)
	if err != nil {
		return cfg, nil, err
	}
	cleanup, err := logging.Setup(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, cleanup, nil
}

func listFiles(c *cobra.Command, cfg config.Config, paths []string) error {
	return headless.Run(c.Context(), c.OutOrStdout(), paths, headless.Options{
		Concurrency: cfg.Concurrency,
		Log:         logging.NewLogger("headless"),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
