package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/palette-tools-mcp/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run palette-mcp as an MCP (Model Context Protocol) server.

Requests are read as JSON-RPC 2.0, one per line, from stdin and responses are
written to stdout. Logs go to stderr. Configure it in your MCP client, for
example Claude Desktop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting MCP server", "version", a.build.Version, "commit", a.build.GitCommit)

	srv := server.New(server.Options{
		Studio:  a.studio,
		Logger:  a.logger,
		Version: a.build.Version,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
	})
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	a.logger.Debug("MCP server stopped")
	return nil
}
