package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/your-org/namegen/internal/audit"
	"github.com/your-org/namegen/internal/names"
)

// ExportAudit converts a JSONL audit log into CSV.
func ExportAudit(inputPath string, outputPath string, out io.Writer) error {
	if err := audit.ExportJSONLToCSV(inputPath, outputPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "audit export complete: %s -> %s\n", inputPath, outputPath)
	return nil
}

// WriteResult prints res as indented JSON or as one name per line followed
// by the provider message.
func WriteResult(out io.Writer, res names.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, n := range res.Names {
		if _, err := fmt.Fprintln(out, n); err != nil {
			return err
		}
	}
	provider := res.Provider
	if provider == "" {
		provider = "none"
	}
	_, err := fmt.Fprintf(out, "-- %s (provider=%s)\n", res.Message, provider)
	return err
}
