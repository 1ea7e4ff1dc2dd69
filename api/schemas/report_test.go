package schemas_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icherkasov/reportgen/api/schemas"
)

func TestSummaryPercentages(t *testing.T) {
	tests := []struct {
		name     string
		summary  schemas.Summary
		wantPass float64
		wantFail float64
	}{
		{"typical run", schemas.Summary{Total: 72, Pass: 69, Fail: 3}, 95.8, 4.2},
		{"all pass", schemas.Summary{Total: 10, Pass: 10, Fail: 0}, 100.0, 0.0},
		{"all fail", schemas.Summary{Total: 10, Pass: 0, Fail: 10}, 0.0, 100.0},
		{"zero total is guarded", schemas.Summary{Total: 0}, 0.0, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.wantPass, tc.summary.PassPercent(), 0.05)
			assert.InDelta(t, tc.wantFail, tc.summary.FailPercent(), 0.05)
		})
	}
}

// The two percentages must always sum to exactly 100 for a positive total,
// regardless of rounding in PassPercent.
func TestSummaryPercentagesComplement(t *testing.T) {
	for pass := 0; pass <= 7; pass++ {
		s := schemas.Summary{Total: 7, Pass: pass, Fail: 7 - pass}
		sum := s.PassPercent() + s.FailPercent()
		assert.True(t, math.Abs(sum-100.0) < 1e-9, "pass=%d: sum=%f", pass, sum)
	}
}

func TestValidateCleanModel(t *testing.T) {
	m := schemas.ExampleModel()
	require.NoError(t, m.Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	m := schemas.ExampleModel()
	m.Summary.Total = 0
	m.Summary.Critical = -1
	m.Header.Project = "  "

	err := m.Validate()
	require.Error(t, err)

	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	// Every violation is reported at once, not just the first.
	assert.GreaterOrEqual(t, len(verr.Problems), 3)
}

func TestValidateSumMismatch(t *testing.T) {
	m := schemas.ExampleModel()
	m.Summary.Total = 14
	m.Summary.Pass = 10
	m.Summary.Fail = 5

	err := m.Validate()
	require.Error(t, err)

	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	found := false
	for _, p := range verr.Problems {
		if strings.Contains(p, "10") && strings.Contains(p, "5") && strings.Contains(p, "14") {
			found = true
		}
	}
	assert.True(t, found, "sum mismatch must name the offending counts: %v", verr.Problems)
}

func TestNormalizeKeepsFixedSchema(t *testing.T) {
	m := &schemas.ReportModel{
		Modules: []schemas.Module{{Title: "Пустой модуль"}},
	}
	m.Normalize()

	require.NotNil(t, m.Modules)
	require.NotNil(t, m.Defects)
	assert.NotNil(t, m.Modules[0].Cases)
	assert.Len(t, m.Modules[0].Cases, 0)
}

func TestSeverityFamilies(t *testing.T) {
	assert.True(t, schemas.SeverityCritical.IsCritical())
	assert.True(t, schemas.Severity("Critical").IsCritical())
	assert.False(t, schemas.SeverityMajor.IsCritical())
	assert.True(t, schemas.SeverityMajor.IsMajor())
	assert.False(t, schemas.SeverityMinor.IsMajor())
}
