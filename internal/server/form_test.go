// File: internal/server/form_test.go
package server

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icherkasov/reportgen/api/schemas"
)

// exampleForm flattens the example model into the form encoding the page
// submits, so parse tests exercise the same field names the template renders.
func exampleForm() url.Values {
	m := schemas.ExampleModel()
	f := url.Values{}
	f.Set("report_title", m.Header.ReportTitle)
	f.Set("project", m.Header.Project)
	f.Set("app_type", m.Header.AppType)
	f.Set("version", m.Header.Version)
	f.Set("test_period", m.Header.TestPeriod)
	f.Set("report_date", m.Header.ReportDate)
	f.Set("engineer", m.Header.Engineer)

	f.Set("release_status", m.Summary.ReleaseStatus)
	f.Set("s1", fmt.Sprint(m.Summary.Critical))
	f.Set("s2", fmt.Sprint(m.Summary.Major))
	f.Set("total_tc", fmt.Sprint(m.Summary.Total))
	f.Set("pass", fmt.Sprint(m.Summary.Pass))
	f.Set("fail", fmt.Sprint(m.Summary.Fail))
	f.Set("risk", m.Summary.Risk)
	f.Set("recommendation", m.Summary.Recommendation)

	f.Set("device_browser", m.Context.DeviceBrowser)
	f.Set("os_platform", m.Context.OSPlatform)
	f.Set("build", m.Context.Build)
	f.Set("env_url", m.Context.EnvURL)
	f.Set("tools", m.Context.Tools)
	f.Set("methodology", m.Context.Methodology)

	f.Set("module_count", fmt.Sprint(len(m.Modules)))
	for i, mod := range m.Modules {
		f.Set(fmt.Sprintf("module_%d_title", i), mod.Title)
		f.Set(fmt.Sprintf("module_%d_rows", i), fmt.Sprint(len(mod.Cases)))
		for j, c := range mod.Cases {
			rp := fmt.Sprintf("module_%d_case_%d_", i, j)
			f.Set(rp+"id", c.ID)
			f.Set(rp+"scenario", c.Scenario)
			f.Set(rp+"status", string(c.Status))
			f.Set(rp+"comment", c.Comment)
		}
	}

	f.Set("defect_rows", fmt.Sprint(len(m.Defects)))
	for j, d := range m.Defects {
		dp := fmt.Sprintf("defect_%d_", j)
		f.Set(dp+"id", d.ID)
		f.Set(dp+"module", d.Module)
		f.Set(dp+"title", d.Title)
		f.Set(dp+"severity", string(d.Severity))
		f.Set(dp+"status", string(d.Status))
	}

	f.Set("consequences", m.Narrative.Consequences)
	f.Set("limitations", m.Narrative.Limitations)
	f.Set("conclusion", m.Narrative.Conclusion)
	f.Set("recommendations_detailed", m.Narrative.Recommendations)

	f.Set("sig_role", m.Signature.Role)
	f.Set("sig_fullname", m.Signature.FullName)
	f.Set("sig_date", m.Signature.Date)
	return f
}

func TestParseReportFormRoundTrip(t *testing.T) {
	want := schemas.ExampleModel()
	want.Normalize()

	got, problems := parseReportForm(exampleForm())
	require.Empty(t, problems)
	assert.Equal(t, want.Header, got.Header)
	assert.Equal(t, want.Summary, got.Summary)
	assert.Equal(t, want.Context, got.Context)
	assert.Equal(t, want.Modules, got.Modules)
	assert.Equal(t, want.Defects, got.Defects)
	assert.Equal(t, want.Narrative, got.Narrative)
	assert.Equal(t, want.Signature, got.Signature)
	assert.NoError(t, got.Validate())
}

func TestParseReportFormCollectsNumericProblems(t *testing.T) {
	f := exampleForm()
	f.Set("total_tc", "abc")
	f.Set("pass", "12.5")

	_, problems := parseReportForm(f)
	require.Len(t, problems, 2)
	joined := strings.Join(problems, "; ")
	assert.Contains(t, joined, "Всего тест-кейсов")
	assert.Contains(t, joined, "Пройдено (PASS)")
}

func TestParseReportFormDropsBlankRows(t *testing.T) {
	f := exampleForm()
	// Simulate an added-but-untouched row at the end of module 0. A status
	// select always posts a value, so a blank row still carries "PASS".
	rows := f.Get("module_0_rows")
	f.Set("module_0_rows", fmt.Sprint(atoi(t, rows)+1))
	f.Set(fmt.Sprintf("module_0_case_%s_status", rows), "")

	want := schemas.ExampleModel()
	got, problems := parseReportForm(f)
	require.Empty(t, problems)
	assert.Len(t, got.Modules[0].Cases, len(want.Modules[0].Cases))
}

func TestParseReportFormClampsModuleCount(t *testing.T) {
	f := exampleForm()
	f.Set("module_count", "25")

	got, problems := parseReportForm(f)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "10")
	assert.Len(t, got.Modules, 10)
}

func TestParseReportFormDefaultsMissingModuleTitle(t *testing.T) {
	f := exampleForm()
	f.Set("module_1_title", "")

	got, problems := parseReportForm(f)
	require.Empty(t, problems)
	assert.Equal(t, "Модуль 2", got.Modules[1].Title)
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	require.NoError(t, err)
	return n
}
