package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith"
	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/server"
)

// ServeCmd creates the 'serve' command, which runs the MCP server.
func ServeCmd() *cobra.Command {
	var transport, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the toolsmith MCP server",
		Long: `Expose all toolsmith tools over the Model Context Protocol.

Transports:
  stdio  - speak MCP on stdin/stdout (default; what assistants launch)
  http   - streamable HTTP on the given port`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			cat, err := catalog.Load()
			if err != nil {
				return err
			}

			srv := server.New(e.Fs, e.Root, e.Cfg, cat, toolsmith.Version)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			switch transport {
			case "stdio":
				output.Verbose("toolsmith MCP server starting (stdio)")
				return srv.Run(ctx, &mcp.StdioTransport{})
			case "http":
				addr := ":" + port
				handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
					return srv
				}, nil)
				output.Info("toolsmith MCP server listening on " + addr)
				return http.ListenAndServe(addr, handler)
			default:
				return &unknownTransportError{transport: transport}
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().StringVar(&port, "port", "8080", "HTTP port (only used with --transport http)")

	return cmd
}

type unknownTransportError struct {
	transport string
}

func (e *unknownTransportError) Error() string {
	return "unknown transport " + e.transport + " (use stdio or http)"
}
