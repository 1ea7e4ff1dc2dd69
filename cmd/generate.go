// File: cmd/generate.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/observability"
	"github.com/icherkasov/reportgen/internal/render"
)

// newGenerateCmd creates the `generate` command: headless generation of all
// three formats from a report JSON file (the same shape drafts are saved in).
func newGenerateCmd() *cobra.Command {
	var (
		outDir  string
		example bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate [report.json]",
		Short: "Renders DOCX, HTML and XLSX documents from a report JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			model, err := loadModel(args, example)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			outputs, err := render.NewPipeline(logger).GenerateAll(ctx, model)
			if err != nil {
				var verr *schemas.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), "ошибка:", p)
					}
				}
				return fmt.Errorf("report did not pass validation")
			}

			var failed int
			for _, out := range outputs {
				if out.Err != nil {
					failed++
					logger.Error("Format failed", zap.String("format", out.Format), zap.Error(out.Err))
					continue
				}
				path := filepath.Join(outDir, out.Filename)
				if err := os.WriteFile(path, out.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d formats failed to render", failed, len(outputs))
			}
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	generateCmd.Flags().BoolVar(&example, "example", false, "render the built-in example report")
	return generateCmd
}

// loadModel reads the model from the JSON file argument, or returns the
// built-in example when --example is set.
func loadModel(args []string, example bool) (*schemas.ReportModel, error) {
	if example {
		m := schemas.ExampleModel()
		return &m, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("either a report JSON file or --example is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var m schemas.ReportModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode report file: %w", err)
	}
	m.Normalize()
	return &m, nil
}
