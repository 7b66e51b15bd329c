package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		inPath string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a table as a PDF report",
		Long: `Read a table as JSON and render it as a PDF report.

The input has the shape
  {"title": "...", "columns": ["Day", "Title"], "rows": [{"Day": "1", "Title": "Fort"}], "filename": "report"}

Example usage:
  tripctl export --in table.json
  cat table.json | tripctl export --dir out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if inPath != "" && inPath != "-" {
				f, err := os.Open(inPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				src = f
			}
			return runExport(cmd, src, outDir)
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "-", "table JSON file (- reads standard input)")
	cmd.Flags().StringVarP(&outDir, "dir", "d", ".", "directory the PDF is written to")
	return cmd
}

func runExport(cmd *cobra.Command, src io.Reader, outDir string) error {
	var table domain.Table
	if err := json.NewDecoder(src).Decode(&table); err != nil {
		return fmt.Errorf("decode table: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, table); err != nil {
		return err
	}

	path := filepath.Join(outDir, export.Filename(table))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d rows)\n", path, humanize.Bytes(uint64(buf.Len())), len(table.Rows))
	return nil
}
