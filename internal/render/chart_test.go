package render_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icherkasov/reportgen/internal/render"
)

func decodePNG(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "chart should be a valid PNG")
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderChartsProducesValidPNGs(t *testing.T) {
	set, err := render.RenderCharts(69, 3, 2, 1)
	require.NoError(t, err)

	w, h := decodePNG(t, set.Outcome)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	w, h = decodePNG(t, set.Severity)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestRenderChartsDeterministic(t *testing.T) {
	a, err := render.RenderCharts(69, 3, 2, 1)
	require.NoError(t, err)
	b, err := render.RenderCharts(69, 3, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, a.Outcome, b.Outcome, "identical inputs must yield identical pie bytes")
	assert.Equal(t, a.Severity, b.Severity, "identical inputs must yield identical bar bytes")
}

func TestRenderChartsZeroCounts(t *testing.T) {
	// Zero tests and zero defects must still render, not error out.
	set, err := render.RenderCharts(0, 0, 0, 0)
	require.NoError(t, err)
	decodePNG(t, set.Outcome)
	decodePNG(t, set.Severity)
}

func TestRenderChartsRejectsNegative(t *testing.T) {
	_, err := render.RenderCharts(-1, 0, 0, 0)
	assert.Error(t, err)
	_, err = render.RenderCharts(0, 0, 0, -3)
	assert.Error(t, err)
}
