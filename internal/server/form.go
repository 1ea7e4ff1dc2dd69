// File: internal/server/form.go
package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/icherkasov/reportgen/api/schemas"
)

// Bounds on the dynamic tables. The form offers between 1 and 10 modules.
const (
	minModules     = 1
	maxModules     = 10
	maxRowsPerList = 200
)

// formInt parses a numeric form field, collecting a readable problem instead
// of failing the whole submission.
func formInt(form url.Values, key, caption string, problems *[]string) int {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("поле «%s» должно быть целым числом, получено «%s»", caption, raw))
		return 0
	}
	return n
}

// parseReportForm rebuilds a ReportModel from the submitted form values.
// Structural problems (non-numeric counts, too many modules) are returned as
// a problem list in the same shape the model validator uses, so the form page
// shows them in one combined list.
func parseReportForm(form url.Values) (*schemas.ReportModel, []string) {
	var problems []string

	m := &schemas.ReportModel{
		Header: schemas.Header{
			ReportTitle: strings.TrimSpace(form.Get("report_title")),
			Project:     strings.TrimSpace(form.Get("project")),
			AppType:     strings.TrimSpace(form.Get("app_type")),
			Version:     strings.TrimSpace(form.Get("version")),
			TestPeriod:  strings.TrimSpace(form.Get("test_period")),
			ReportDate:  strings.TrimSpace(form.Get("report_date")),
			Engineer:    strings.TrimSpace(form.Get("engineer")),
		},
		Summary: schemas.Summary{
			ReleaseStatus:  strings.TrimSpace(form.Get("release_status")),
			Critical:       formInt(form, "s1", "Критические дефекты (S1)", &problems),
			Major:          formInt(form, "s2", "Значительные дефекты (S2)", &problems),
			Total:          formInt(form, "total_tc", "Всего тест-кейсов", &problems),
			Pass:           formInt(form, "pass", "Пройдено (PASS)", &problems),
			Fail:           formInt(form, "fail", "Провалено (FAIL)", &problems),
			Risk:           strings.TrimSpace(form.Get("risk")),
			Recommendation: strings.TrimSpace(form.Get("recommendation")),
		},
		Context: schemas.Context{
			DeviceBrowser: strings.TrimSpace(form.Get("device_browser")),
			OSPlatform:    strings.TrimSpace(form.Get("os_platform")),
			Build:         strings.TrimSpace(form.Get("build")),
			EnvURL:        strings.TrimSpace(form.Get("env_url")),
			Tools:         strings.TrimSpace(form.Get("tools")),
			Methodology:   strings.TrimSpace(form.Get("methodology")),
		},
		Narrative: schemas.Narrative{
			Consequences:    form.Get("consequences"),
			Limitations:     form.Get("limitations"),
			Conclusion:      form.Get("conclusion"),
			Recommendations: form.Get("recommendations_detailed"),
		},
		Signature: schemas.Signature{
			Role:     strings.TrimSpace(form.Get("sig_role")),
			FullName: strings.TrimSpace(form.Get("sig_fullname")),
			Date:     strings.TrimSpace(form.Get("sig_date")),
		},
	}

	moduleCount := formInt(form, "module_count", "Количество модулей", &problems)
	if moduleCount < minModules {
		moduleCount = minModules
	}
	if moduleCount > maxModules {
		problems = append(problems, fmt.Sprintf("количество модулей не может превышать %d", maxModules))
		moduleCount = maxModules
	}

	for i := 0; i < moduleCount; i++ {
		prefix := fmt.Sprintf("module_%d_", i)
		mod := schemas.Module{
			Title: strings.TrimSpace(form.Get(prefix + "title")),
			Cases: []schemas.TestCaseRow{},
		}
		if mod.Title == "" {
			mod.Title = fmt.Sprintf("Модуль %d", i+1)
		}

		rows := formInt(form, prefix+"rows", fmt.Sprintf("Количество кейсов модуля %d", i+1), &problems)
		if rows > maxRowsPerList {
			rows = maxRowsPerList
		}
		for j := 0; j < rows; j++ {
			rp := fmt.Sprintf("%scase_%d_", prefix, j)
			row := schemas.TestCaseRow{
				ID:       strings.TrimSpace(form.Get(rp + "id")),
				Scenario: strings.TrimSpace(form.Get(rp + "scenario")),
				Status:   schemas.TestStatus(strings.TrimSpace(form.Get(rp + "status"))),
				Comment:  strings.TrimSpace(form.Get(rp + "comment")),
			}
			if rowIsBlank(row.ID, row.Scenario, string(row.Status), row.Comment) {
				continue
			}
			mod.Cases = append(mod.Cases, row)
		}
		m.Modules = append(m.Modules, mod)
	}

	defectRows := formInt(form, "defect_rows", "Количество дефектов", &problems)
	if defectRows > maxRowsPerList {
		defectRows = maxRowsPerList
	}
	m.Defects = []schemas.DefectRow{}
	for j := 0; j < defectRows; j++ {
		dp := fmt.Sprintf("defect_%d_", j)
		row := schemas.DefectRow{
			ID:       strings.TrimSpace(form.Get(dp + "id")),
			Module:   strings.TrimSpace(form.Get(dp + "module")),
			Title:    strings.TrimSpace(form.Get(dp + "title")),
			Severity: schemas.Severity(strings.TrimSpace(form.Get(dp + "severity"))),
			Status:   schemas.DefectState(strings.TrimSpace(form.Get(dp + "status"))),
		}
		if rowIsBlank(row.ID, row.Module, row.Title, string(row.Severity), string(row.Status)) {
			continue
		}
		m.Defects = append(m.Defects, row)
	}

	return m, problems
}

// rowIsBlank reports whether every cell of a dynamic row is empty; such rows
// are leftovers of the row-add controls and are dropped silently.
func rowIsBlank(cells ...string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
