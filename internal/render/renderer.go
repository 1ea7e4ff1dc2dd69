package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/icherkasov/reportgen/api/schemas"
)

// Renderer turns a validated report model into one output document.
type Renderer interface {
	// Format returns the short format name ("docx", "html", "xlsx").
	Format() string
	// Render builds the complete document as a byte buffer. The model must
	// already have passed validation; Render never mutates it.
	Render(model *schemas.ReportModel) ([]byte, error)
}

// Output is the result of rendering one format. Exactly one of Data and Err
// is meaningful.
type Output struct {
	Format   string
	Filename string
	MIME     string
	Data     []byte
	Err      error
}

// Pipeline fans a single model out to the three renderers.
type Pipeline struct {
	renderers []Renderer
	log       *zap.Logger
}

// NewPipeline builds the standard three-format pipeline sharing one layout.
func NewPipeline(logger *zap.Logger) *Pipeline {
	lay := DefaultLayout()
	return &Pipeline{
		renderers: []Renderer{
			NewDOCXRenderer(lay),
			NewHTMLRenderer(lay),
			NewXLSXRenderer(lay),
		},
		log: logger.Named("render"),
	}
}

// filenameFor maps a format name to its fixed download name and MIME type.
func filenameFor(format string) (string, string) {
	switch format {
	case "docx":
		return DOCXFilename, DOCXMIME
	case "html":
		return HTMLFilename, HTMLMIME
	case "xlsx":
		return XLSXFilename, XLSXMIME
	default:
		return format, "application/octet-stream"
	}
}

// GenerateAll validates the model and, on a clean pass, renders every format
// independently. A failure (or panic) in one renderer is captured in its
// Output and never blocks the others, so the caller can offer partial
// success. Validation failure aborts before any renderer runs.
func (p *Pipeline) GenerateAll(ctx context.Context, model *schemas.ReportModel) ([]Output, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(p.renderers))
	g, _ := errgroup.WithContext(ctx)
	for i, r := range p.renderers {
		g.Go(func() error {
			name, mime := filenameFor(r.Format())
			out := Output{Format: r.Format(), Filename: name, MIME: mime}

			func() {
				defer func() {
					if rec := recover(); rec != nil {
						out.Err = fmt.Errorf("renderer %s panicked: %v", r.Format(), rec)
					}
				}()
				out.Data, out.Err = r.Render(model)
			}()

			if out.Err != nil {
				p.log.Error("Format generation failed",
					zap.String("format", r.Format()),
					zap.Error(out.Err))
			} else {
				p.log.Info("Format generated",
					zap.String("format", r.Format()),
					zap.Int("bytes", len(out.Data)))
			}
			outputs[i] = out
			// Render errors are reported per output, never as a group error.
			return nil
		})
	}
	_ = g.Wait()
	return outputs, nil
}
