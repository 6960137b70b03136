package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tokenizer and parser over HTTP",
		Long: `Start the HTTP API.

Routes:
  GET  /healthz
  POST /v1/tokenize   body: SQL text, returns the tokens
  POST /v1/parse      body: SQL text, returns the tree (422 on parse errors)
  GET  /v1/runs       recorded runs (requires --history)
  GET  /v1/runs/{id}`,
		Example: `  fixpq serve --addr :8080 --history
  curl --data-binary @schema.sql localhost:8080/v1/parse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if addr == "" {
		addr = cc.Cfg.Server.Addr
	}

	srv := server.New(server.Config{
		Addr:       addr,
		Logger:     cc.Logger,
		MaxBody:    cc.Cfg.Server.MaxBody,
		MaxTextLen: cc.Cfg.MaxTextLen,
		Encoding:   cc.Cfg.Encoding,
		Store:      cc.Store,
	})

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	cc.Renderer.Muted("Listening on http://" + srv.Addr() + " (Ctrl+C to stop)")
	return srv.Serve(ctx)
}
