package schemas

import (
	"fmt"
	"strings"
)

// -- Report Schemas --

// TestStatus is the outcome of a single test case.
type TestStatus string

// Constants defining the allowed test case outcomes.
const (
	StatusPass TestStatus = "PASS" // The test case passed.
	StatusFail TestStatus = "FAIL" // The test case failed.
	StatusSkip TestStatus = "SKIP" // The test case was not executed.
)

// Severity classifies a defect by impact. The values match the labels used in
// the rendered documents, so they are stored verbatim rather than normalized.
type Severity string

// Constants defining the standard defect severities.
const (
	SeverityCritical Severity = "Critical (S1)" // Blocks release.
	SeverityMajor    Severity = "Major (S2)"    // Degrades core functionality.
	SeverityMinor    Severity = "Minor (S3)"    // Cosmetic or low-impact.
)

// IsCritical reports whether the severity belongs to the critical family.
// Matching is substring based because user-edited rows may carry localized
// or abbreviated labels ("Critical", "Critical (S1)").
func (s Severity) IsCritical() bool { return strings.Contains(string(s), "Critical") }

// IsMajor reports whether the severity belongs to the major family.
func (s Severity) IsMajor() bool { return strings.Contains(string(s), "Major") }

// DefectState is the workflow state of a defect.
type DefectState string

// Constants defining the defect workflow states.
const (
	DefectNew    DefectState = "New"
	DefectOpen   DefectState = "Open"
	DefectFixed  DefectState = "Fixed"
	DefectClosed DefectState = "Closed"
)

// TestCaseRow is one row of a module's test case table. The table always has
// this fixed four-column shape, even when it has zero rows.
type TestCaseRow struct {
	ID       string     `json:"id"`       // Test case identifier (e.g. "AUTH-01").
	Scenario string     `json:"scenario"` // What the test case verifies.
	Status   TestStatus `json:"status"`   // PASS, FAIL or SKIP.
	Comment  string     `json:"comment"`  // Free-text note, usually a defect reference.
}

// Module is a named feature area with its own test case table.
type Module struct {
	Title string        `json:"title"`
	Cases []TestCaseRow `json:"cases"`
}

// DefectRow is one row of the defect table (fixed five-column shape).
type DefectRow struct {
	ID       string      `json:"id"`       // Defect identifier (e.g. "BUG-SEC-001").
	Module   string      `json:"module"`   // Name of the module where it was found.
	Title    string      `json:"title"`    // Short defect summary.
	Severity Severity    `json:"severity"` // Critical/Major/Minor.
	Status   DefectState `json:"status"`   // New/Open/Fixed/Closed.
}

// Header holds the identifying fields shown at the top of the report.
// All fields are required non-empty.
type Header struct {
	ReportTitle string `json:"report_title"`
	Project     string `json:"project"`
	AppType     string `json:"app_type"`
	Version     string `json:"version"`
	TestPeriod  string `json:"test_period"`
	ReportDate  string `json:"report_date"`
	Engineer    string `json:"engineer"`
}

// Summary holds the aggregate test metrics and the release verdict.
type Summary struct {
	ReleaseStatus  string `json:"release_status"`
	Critical       int    `json:"s1"`       // Count of Critical (S1) defects.
	Major          int    `json:"s2"`       // Count of Major (S2) defects.
	Total          int    `json:"total_tc"` // Total number of test cases.
	Pass           int    `json:"pass"`
	Fail           int    `json:"fail"`
	Risk           string `json:"risk"`
	Recommendation string `json:"recommendation"`
}

// PassPercent returns the pass rate in percent, or 0 when Total is 0.
func (s Summary) PassPercent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Pass) / float64(s.Total) * 100
}

// FailPercent returns the fail rate in percent, or 0 when Total is 0.
// Defined as the complement of PassPercent so the two always sum to 100.
func (s Summary) FailPercent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return 100 - s.PassPercent()
}

// Context describes the environment the testing was performed in.
type Context struct {
	DeviceBrowser string `json:"device_browser"`
	OSPlatform    string `json:"os_platform"`
	Build         string `json:"build"`
	EnvURL        string `json:"env_url"`
	Tools         string `json:"tools"`
	Methodology   string `json:"methodology"`
}

// Narrative holds the free-text blocks. Limitations and Recommendations are
// multi-line fields where each non-blank line is one logical list item.
type Narrative struct {
	Consequences    string `json:"consequences"`
	Limitations     string `json:"limitations"`
	Conclusion      string `json:"conclusion"`
	Recommendations string `json:"recommendations_detailed"`
}

// Signature identifies who signs off on the report.
type Signature struct {
	Role     string `json:"role"`
	FullName string `json:"fullname"`
	Date     string `json:"signature_date"`
}

// ReportModel is the complete in-memory record of one report, independent of
// output format. It is built fresh from form state on each submission and
// treated as immutable while the renderers read it.
type ReportModel struct {
	Header    Header      `json:"header"`
	Summary   Summary     `json:"summary"`
	Context   Context     `json:"context"`
	Modules   []Module    `json:"modules"`
	Defects   []DefectRow `json:"defects"`
	Narrative Narrative   `json:"narrative"`
	Signature Signature   `json:"signature"`
}

// Normalize replaces nil tables with empty ones so that an empty table keeps
// its fixed column schema across a serialize/deserialize round trip.
func (m *ReportModel) Normalize() {
	if m.Modules == nil {
		m.Modules = []Module{}
	}
	for i := range m.Modules {
		if m.Modules[i].Cases == nil {
			m.Modules[i].Cases = []TestCaseRow{}
		}
	}
	if m.Defects == nil {
		m.Defects = []DefectRow{}
	}
}

// ValidationError aggregates every problem found in a model. Errors are
// collected, not short-circuited, so the user sees all of them at once.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface by joining all collected problems.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("report validation failed: %s", strings.Join(e.Problems, "; "))
}

// requiredHeaderFields maps field captions to accessors, in display order.
var requiredHeaderFields = []struct {
	name  string
	value func(*ReportModel) string
}{
	{"Название отчёта", func(m *ReportModel) string { return m.Header.ReportTitle }},
	{"Проект", func(m *ReportModel) string { return m.Header.Project }},
	{"Версия приложения", func(m *ReportModel) string { return m.Header.Version }},
	{"Период тестирования", func(m *ReportModel) string { return m.Header.TestPeriod }},
	{"Дата формирования отчёта", func(m *ReportModel) string { return m.Header.ReportDate }},
	{"Тест-инженер", func(m *ReportModel) string { return m.Header.Engineer }},
	{"URL стенда", func(m *ReportModel) string { return m.Context.EnvURL }},
}

// Validate checks the model against the invariants that must hold before any
// rendering starts. It returns a *ValidationError listing every violation, or
// nil when the model is clean.
func (m *ReportModel) Validate() error {
	var problems []string

	s := m.Summary
	if s.Total <= 0 {
		problems = append(problems, "общее количество тест-кейсов должно быть больше 0")
	}
	if s.Pass < 0 || s.Fail < 0 {
		problems = append(problems, "количество тест-кейсов не может быть отрицательным")
	}
	if s.Critical < 0 || s.Major < 0 {
		problems = append(problems, "количество дефектов не может быть отрицательным")
	}
	if s.Pass > s.Total || s.Fail > s.Total {
		problems = append(problems, fmt.Sprintf("количество Pass (%d) и Fail (%d) не может превышать общее количество (%d)", s.Pass, s.Fail, s.Total))
	}
	if s.Pass >= 0 && s.Fail >= 0 && s.Pass+s.Fail != s.Total {
		problems = append(problems, fmt.Sprintf("сумма статусов (%d PASS + %d FAIL = %d) не равна общему количеству тест-кейсов (%d)", s.Pass, s.Fail, s.Pass+s.Fail, s.Total))
	}

	for _, f := range requiredHeaderFields {
		if strings.TrimSpace(f.value(m)) == "" {
			problems = append(problems, fmt.Sprintf("поле «%s» не может быть пустым", f.name))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
