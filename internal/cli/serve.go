package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factcheck/internal/api"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-check HTTP API",
	Long: `Serve exposes analysis, result lookup, rendering and export over HTTP.

Analysis is disabled (503) until a provider is configured; stored results can
still be fetched and exported.

Example:
  factcheck serve
  factcheck serve --addr :9090 --provider ollama --model llama3.1`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	a, err := newApp(ctx, m)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	if a.pipeline.Enabled() {
		fmt.Fprintf(os.Stderr, "✓ Analysis provider: %s/%s\n", a.pipeline.ProviderName(), a.cfg.LLM.Model)
	} else {
		fmt.Fprintf(os.Stderr, "⚠️  Analysis disabled: %v\n", a.pipeline.ConfigError())
	}
	fmt.Fprintf(os.Stderr, "✓ Store: %s\n", a.cfg.Store.Backend)
	fmt.Fprintf(os.Stderr, "⚙️  Listening on %s\n", addr)

	server := api.NewServer(a.cfg.Server, a.pipeline, a.exporter, m, &a.logger)
	return server.Run(ctx, addr)
}
