package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
)

func TestGenerateAllProducesThreeFormats(t *testing.T) {
	m := schemas.ExampleModel()
	outputs, err := NewPipeline(zap.NewNop()).GenerateAll(context.Background(), &m)
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	byFormat := map[string]Output{}
	for _, out := range outputs {
		require.NoError(t, out.Err, "format %s", out.Format)
		require.NotEmpty(t, out.Data, "format %s", out.Format)
		byFormat[out.Format] = out
	}

	assert.Equal(t, DOCXFilename, byFormat["docx"].Filename)
	assert.Equal(t, DOCXMIME, byFormat["docx"].MIME)
	assert.Equal(t, HTMLFilename, byFormat["html"].Filename)
	assert.Equal(t, HTMLMIME, byFormat["html"].MIME)
	assert.Equal(t, XLSXFilename, byFormat["xlsx"].Filename)
	assert.Equal(t, XLSXMIME, byFormat["xlsx"].MIME)
}

func TestGenerateAllValidationGatesRendering(t *testing.T) {
	m := schemas.ExampleModel()
	m.Summary.Pass = 10
	m.Summary.Fail = 5
	m.Summary.Total = 14

	outputs, err := NewPipeline(zap.NewNop()).GenerateAll(context.Background(), &m)
	require.Error(t, err)
	assert.Nil(t, outputs)

	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	joined := strings.Join(verr.Problems, "; ")
	assert.Contains(t, joined, "не равна общему количеству")
}

// failingRenderer simulates one broken format.
type failingRenderer struct{ panics bool }

func (r *failingRenderer) Format() string { return "broken" }
func (r *failingRenderer) Render(*schemas.ReportModel) ([]byte, error) {
	if r.panics {
		panic("boom")
	}
	return nil, errors.New("synthetic failure")
}

func TestGenerateAllIsolatesFormatFailures(t *testing.T) {
	m := schemas.ExampleModel()
	p := &Pipeline{
		renderers: []Renderer{
			&failingRenderer{},
			NewHTMLRenderer(DefaultLayout()),
		},
		log: zap.NewNop(),
	}

	outputs, err := p.GenerateAll(context.Background(), &m)
	require.NoError(t, err, "one failing format must not fail the batch")
	require.Len(t, outputs, 2)

	assert.Error(t, outputs[0].Err)
	assert.NoError(t, outputs[1].Err)
	assert.NotEmpty(t, outputs[1].Data, "the healthy format still renders")
}

func TestGenerateAllRecoversPanics(t *testing.T) {
	m := schemas.ExampleModel()
	p := &Pipeline{
		renderers: []Renderer{
			&failingRenderer{panics: true},
			NewXLSXRenderer(DefaultLayout()),
		},
		log: zap.NewNop(),
	}

	outputs, err := p.GenerateAll(context.Background(), &m)
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	require.Error(t, outputs[0].Err)
	assert.Contains(t, outputs[0].Err.Error(), "panicked")
	assert.NoError(t, outputs[1].Err)
}
