// Package cli provides the command-line interface for palette-mcp.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/palette-tools-mcp/internal/config"
	"github.com/ironsheep/palette-tools-mcp/internal/imaging"
	"github.com/ironsheep/palette-tools-mcp/internal/store"
	"github.com/ironsheep/palette-tools-mcp/internal/studio"
)

// BuildInfo carries the values injected at link time.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("palette-mcp %s (built %s, commit %s)", b.Version, b.BuildTime, b.GitCommit)
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	store      string
	storePath  string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "config file (.yaml, .yml, .toml or .json)")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	fs.StringVar(&g.store, "store", "", "saved-palette store (memory, file, postgres)")
	fs.StringVar(&g.storePath, "store-path", "", "directory for the file store")
}

// app holds the collaborators built once per invocation.
type app struct {
	build   BuildInfo
	flags   globalFlags
	cfg     config.Config
	logger  hclog.Logger
	backend store.Backend
	studio  *studio.Studio
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand starts the MCP server.
func NewRootCmd(build BuildInfo) *cobra.Command {
	a := &app{build: build}

	rootCmd := &cobra.Command{
		Use:   "palette-mcp",
		Short: "Extract, check and curate color palettes",
		Long: `palette-mcp extracts representative colors from images, computes WCAG
contrast ratios and keeps a curated set of saved palettes.

Without a subcommand it runs as an MCP server on stdin/stdout.`,
		Version:       build.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.Context(), cmd.Flags())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	a.flags.register(rootCmd.PersistentFlags())
	rootCmd.SetVersionTemplate(build.String() + "\n")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newContrastCmd(a))
	rootCmd.AddCommand(newSavedCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	return rootCmd
}

// setup resolves configuration (defaults, file, .env, environment, flags)
// and builds the logger, store and studio.
func (a *app) setup(ctx context.Context, fs *pflag.FlagSet) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.LoadDotEnv()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if fs.Changed("store") {
		cfg.Store.Driver = a.flags.store
	}
	if fs.Changed("store-path") {
		cfg.Store.Path = a.flags.storePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	// stdout carries MCP traffic and command output
	a.logger = cfg.NewLogger(os.Stderr)

	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	a.backend = backend
	a.logger.Debug("store ready", "driver", cfg.Store.Driver, "namespace", cfg.Namespace)

	loader := imaging.NewLoader(imaging.LoaderOptions{
		Fetch: imaging.FetchOptions{
			Timeout:   cfg.Fetch.TimeoutDuration(),
			MaxBytes:  cfg.Fetch.MaxBytes,
			UserAgent: "palette-mcp/" + a.build.Version,
		},
		Client: &http.Client{},
		Logger: a.logger.Named("loader"),
	})

	a.studio = studio.New(studio.Options{
		Loader: loader,
		Store: store.New(backend, store.Options{
			Namespace: cfg.Namespace,
			MaxSaved:  cfg.MaxSaved,
			Logger:    a.logger,
		}),
		Defaults: studio.Defaults{
			Count:        cfg.Extract.Count,
			Step:         cfg.Extract.Step,
			MaxDimension: cfg.Extract.MaxDimension,
		},
		Logger: a.logger,
	})
	return nil
}

func (a *app) close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil && a.logger != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
	a.backend = nil
}

func openBackend(ctx context.Context, sc config.StoreConfig) (store.Backend, error) {
	switch sc.Driver {
	case config.DriverFile:
		b, err := store.NewFileBackend(sc.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverPostgres:
		b, err := store.OpenPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return b, nil
	default:
		return store.NewMemoryBackend(), nil
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.build.String())
		},
	}
}
