package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart dimensions, tuned for embedding at roughly half a page width.
const (
	chartWidth  = 640
	chartHeight = 480
)

// ChartSet holds the two report charts as PNG bytes. Both images are fully
// rendered and detached from any drawing context before the set is returned,
// so repeated or concurrent calls cannot interfere with each other.
type ChartSet struct {
	Outcome  []byte // Pie: PASS/FAIL distribution.
	Severity []byte // Bar: defects by severity.
}

// RenderCharts produces both charts from the four counts. It is a pure
// function of its inputs: identical counts yield byte-identical images.
func RenderCharts(pass, fail, critical, major int) (*ChartSet, error) {
	if pass < 0 || fail < 0 || critical < 0 || major < 0 {
		return nil, fmt.Errorf("chart counts must be non-negative (pass=%d fail=%d s1=%d s2=%d)", pass, fail, critical, major)
	}

	outcome, err := renderOutcomePie(pass, fail)
	if err != nil {
		return nil, fmt.Errorf("outcome pie: %w", err)
	}
	severity, err := renderSeverityBars(critical, major)
	if err != nil {
		return nil, fmt.Errorf("severity bars: %w", err)
	}
	return &ChartSet{Outcome: outcome, Severity: severity}, nil
}

func renderOutcomePie(pass, fail int) ([]byte, error) {
	lay := DefaultLayout()
	total := pass + fail

	var values []chart.Value
	if total == 0 {
		// A zero/zero pie has no wedges to normalize; draw a single neutral
		// wedge instead of failing the whole render.
		values = []chart.Value{{
			Value: 1,
			Label: lay.NoDataLabel,
			Style: chart.Style{FillColor: drawing.ColorFromHex("E0E0E0")},
		}}
	} else {
		passPct := float64(pass) / float64(total) * 100
		values = []chart.Value{
			{
				Value: float64(pass),
				Label: fmt.Sprintf("PASS %s", FormatPercent(passPct)),
				Style: chart.Style{FillColor: drawing.ColorFromHex(lay.PassColor[1:])},
			},
			{
				Value: float64(fail),
				Label: fmt.Sprintf("FAIL %s", FormatPercent(100-passPct)),
				Style: chart.Style{FillColor: drawing.ColorFromHex(lay.FailColor[1:])},
			},
		}
	}

	pie := chart.PieChart{
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSeverityBars(critical, major int) ([]byte, error) {
	lay := DefaultLayout()

	// Scale the axis to 1.3x the taller bar, with a floor of 1 so that two
	// zero counts still produce a non-degenerate axis.
	maxCount := critical
	if major > maxCount {
		maxCount = major
	}
	if maxCount < 1 {
		maxCount = 1
	}
	yMax := float64(maxCount) * 1.3

	bars := chart.BarChart{
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		Bars: []chart.Value{
			{
				Value: float64(critical),
				Label: fmt.Sprintf("Critical (S1): %d", critical),
				Style: chart.Style{FillColor: drawing.ColorFromHex(lay.FailColor[1:])},
			},
			{
				Value: float64(major),
				Label: fmt.Sprintf("Major (S2): %d", major),
				Style: chart.Style{FillColor: drawing.ColorFromHex(lay.MajorColor[1:])},
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Shown(),
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			GridMajorStyle: chart.Style{
				Hidden:          false,
				StrokeColor:     drawing.ColorFromHex("CCCCCC"),
				StrokeWidth:     1.0,
				StrokeDashArray: []float64{4.0, 4.0},
			},
		},
	}

	var buf bytes.Buffer
	if err := bars.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
