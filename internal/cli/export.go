package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/factcheck/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored result",
	Long: `Export renders a previously stored result in the requested format.

Results are looked up in the configured store, so export only finds results
produced with a persistent backend (disk, layered, redis or postgres).

Example:
  factcheck export 3f1c... --format md --out result.md
  factcheck export 3f1c... --format xlsx --out result.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, text, md, html, xlsx)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.pipeline.Get(ctx, args[0])
	if err != nil {
		return err
	}

	art, err := a.exporter.Export(ctx, res, format)
	if err != nil {
		return err
	}
	if err := writeArtifact(art, exportOut); err != nil {
		return err
	}
	if exportOut != "" && exportOut != "-" {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", format, exportOut)
	}
	return nil
}
