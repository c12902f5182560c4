package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Olivia010207/NPS/internal/server"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve analyses of one survey export over HTTP",
	Long: `Load a survey export once and serve the JSON API used by interactive
front ends:

  GET  /health
  GET  /api/questions[/{qid}]
  GET  /api/analysis-types
  POST /api/analyze   (?format=markdown for Markdown)
  POST /api/export    (XLSX workbook)
  GET  /metrics       (Prometheus)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := loadDataset(path)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = currentConfig().ServerAddr
		}
		srv := server.New(newService(ds, path), server.Options{
			Addr:           addr,
			AllowedOrigins: serveOrigins,
			Logger:         logger,
		})
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addLoadFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config server_addr)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origins (default: localhost)")
}
