package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/icherkasov/reportgen/api/schemas"
)

// HTMLRenderer produces a single self-contained document: inline CSS, charts
// embedded as data URIs, print rules for browser-to-PDF use. No external
// resources are referenced.
type HTMLRenderer struct {
	lay Layout
	tpl *template.Template
}

// NewHTMLRenderer returns a renderer bound to the given layout constants.
func NewHTMLRenderer(lay Layout) *HTMLRenderer {
	return &HTMLRenderer{
		lay: lay,
		tpl: template.Must(template.New("report").Parse(reportHTMLTemplate)),
	}
}

// Format implements Renderer.
func (r *HTMLRenderer) Format() string { return "html" }

type htmlCaseRow struct {
	ID, Scenario, Status, Comment string
	StatusClass                   string
}

type htmlModule struct {
	Heading string
	Rows    []htmlCaseRow
}

type htmlDefectRow struct {
	ID, Module, Title, Severity, Status string
	SeverityClass                       string
}

// htmlView is the fully precomputed template input. All numeric formatting
// happens here so the template stays purely structural; text escaping is
// left to html/template's contextual auto-escaping.
type htmlView struct {
	Lay      Layout
	M        *schemas.ReportModel
	Stand    string
	PassLine string
	FailLine string
	Chart1   template.URL
	Chart2   template.URL

	Modules         []htmlModule
	Defects         []htmlDefectRow
	Consequences    []string
	Limitations     []string
	Recommendations []string
	Warnings        []string
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(m *schemas.ReportModel) ([]byte, error) {
	charts, err := RenderCharts(m.Summary.Pass, m.Summary.Fail, m.Summary.Critical, m.Summary.Major)
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	v := r.buildView(m, charts)
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) buildView(m *schemas.ReportModel, charts *ChartSet) *htmlView {
	s := m.Summary
	v := &htmlView{
		Lay:      r.lay,
		M:        m,
		Stand:    fmt.Sprintf("Тестовое окружение (адрес: %s)", m.Context.EnvURL),
		PassLine: FormatCountPercent(s.Pass, s.PassPercent()),
		FailLine: FormatCountPercent(s.Fail, s.FailPercent()),
		Chart1:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(charts.Outcome)),
		Chart2:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(charts.Severity)),
	}

	for i, mod := range m.Modules {
		hm := htmlModule{Heading: fmt.Sprintf("3.%d. %s", i+1, mod.Title)}
		for _, tc := range mod.Cases {
			hm.Rows = append(hm.Rows, htmlCaseRow{
				ID:          DisplayValue(tc.ID, r.lay.EmptyValue),
				Scenario:    DisplayValue(tc.Scenario, r.lay.EmptyValue),
				Status:      string(tc.Status),
				Comment:     DisplayValue(tc.Comment, r.lay.EmptyValue),
				StatusClass: statusClass(string(tc.Status)),
			})
		}
		v.Modules = append(v.Modules, hm)
	}

	for _, d := range m.Defects {
		v.Defects = append(v.Defects, htmlDefectRow{
			ID:            DisplayValue(d.ID, r.lay.EmptyValue),
			Module:        DisplayValue(d.Module, r.lay.EmptyValue),
			Title:         DisplayValue(d.Title, r.lay.EmptyValue),
			Severity:      string(d.Severity),
			Status:        string(d.Status),
			SeverityClass: severityClass(d.Severity),
		})
	}

	v.Consequences = Lines(m.Narrative.Consequences)
	for _, line := range Lines(m.Narrative.Limitations) {
		v.Limitations = append(v.Limitations, StripListMarker(line))
	}
	for _, line := range Lines(m.Narrative.Recommendations) {
		v.Recommendations = append(v.Recommendations, StripListMarker(line))
	}

	// Defensive consistency banner. Validation normally gates rendering, but
	// when this renderer is driven directly the mismatch is surfaced in the
	// document itself instead of silently producing wrong percentages.
	if s.Pass+s.Fail != s.Total {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"Сумма статусов (%d PASS + %d FAIL) не равна общему количеству тест-кейсов (%d)",
			s.Pass, s.Fail, s.Total))
	}
	return v
}

// statusClass maps a test status to its color class, case-insensitively.
func statusClass(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PASS":
		return "status-pass"
	case "FAIL":
		return "status-fail"
	default:
		return ""
	}
}

// severityClass maps a defect severity to its highlight class.
func severityClass(sev schemas.Severity) string {
	switch {
	case sev.IsCritical():
		return "sev-critical"
	case sev.IsMajor():
		return "sev-major"
	default:
		return ""
	}
}

const reportHTMLTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.M.Header.ReportTitle}}</title>
<style>
body {
    font-family: "Calibri Light", "Segoe UI", sans-serif;
    font-size: 13pt;
    line-height: 1.5;
    max-width: 800px;
    margin: 0 auto;
    padding: 20px;
    color: #000;
}
h1 { text-align: center; font-size: 16pt; font-weight: bold; margin: 0 0 25px 0; }
h2 { font-size: 14pt; margin: 25px 0 12px 0; padding-bottom: 4px; border-bottom: 2px solid #000; }
h3 { font-size: 13pt; margin: 20px 0 10px 0; }
table { width: 100%; border-collapse: collapse; margin: 12px 0 18px 0; page-break-inside: avoid; }
th, td { border: 1px solid #000; padding: 8px 10px; text-align: left; vertical-align: top; }
th { background-color: #f5f5f5; font-weight: bold; }
.fact-table td:first-child { width: 25%; font-weight: bold; background-color: #f9f9f9; }
.status-pass { color: #2e7d32; font-weight: bold; }
.status-fail { color: #d32f2f; font-weight: bold; }
.sev-critical { background-color: #ffcdd2; font-weight: bold; }
.sev-major { background-color: #ffe0b2; font-weight: bold; }
.risk { color: #d32f2f; font-weight: bold; }
.warning-banner { background: #fff3cd; border: 1px solid #d39e00; padding: 10px 14px; margin: 12px 0; }
.chart-container { text-align: center; margin: 25px 0; page-break-inside: avoid; }
.chart-container img { max-width: 100%; height: auto; display: block; margin: 0 auto; }
.chart-title { font-weight: bold; margin-top: 8px; font-size: 11pt; }
ol, ul { padding-left: 20px; margin: 10px 0; }
li { margin-bottom: 5px; }
@media print {
    body { padding: 15px; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
    table { page-break-inside: avoid; }
    h2, h3 { page-break-after: avoid; }
}
@page { size: A4; margin: 15mm; }
</style>
</head>
<body>
<h1>{{.M.Header.ReportTitle}}</h1>
{{range .Warnings}}<div class="warning-banner">{{.}}</div>
{{end}}
<table class="fact-table">
<tr><td>Проект:</td><td>{{.M.Header.Project}}</td></tr>
<tr><td>Тип приложения:</td><td>{{.M.Header.AppType}}</td></tr>
<tr><td>Версия приложения:</td><td>{{.M.Header.Version}}</td></tr>
<tr><td>Период тестирования:</td><td>{{.M.Header.TestPeriod}}</td></tr>
<tr><td>Дата формирования отчёта:</td><td>{{.M.Header.ReportDate}}</td></tr>
<tr><td>QA-инженер:</td><td>{{.M.Header.Engineer}}</td></tr>
</table>

<h2>{{.Lay.SectionSummary}}</h2>
<table class="fact-table">
<tr><td>Статус релиза:</td><td>{{.M.Summary.ReleaseStatus}}</td></tr>
<tr><td>Критические дефекты (S1):</td><td>{{.M.Summary.Critical}}</td></tr>
<tr><td>Мажорные дефекты (S2):</td><td>{{.M.Summary.Major}}</td></tr>
<tr><td>Всего тест-кейсов:</td><td>{{.M.Summary.Total}}</td></tr>
<tr><td>Успешно (Pass):</td><td class="status-pass">{{.PassLine}}</td></tr>
<tr><td>Упали (Fail):</td><td class="status-fail">{{.FailLine}}</td></tr>
<tr><td>Основной риск:</td><td class="risk">{{.M.Summary.Risk}}</td></tr>
<tr><td>Рекомендация:</td><td>{{.M.Summary.Recommendation}}</td></tr>
</table>

<div class="chart-container">
<img src="{{.Chart1}}" alt="{{.Lay.OutcomeChartCaption}}">
<div class="chart-title">{{.Lay.OutcomeChartCaption}}</div>
</div>
<div class="chart-container">
<img src="{{.Chart2}}" alt="{{.Lay.SeverityChartCaption}}">
<div class="chart-title">{{.Lay.SeverityChartCaption}}</div>
</div>

<h2>{{.Lay.SectionContext}}</h2>
<table class="fact-table">
<tr><td>Устройство / Браузер:</td><td>{{.M.Context.DeviceBrowser}}</td></tr>
<tr><td>ОС / Платформа:</td><td>{{.M.Context.OSPlatform}}</td></tr>
<tr><td>Сборка / Версия:</td><td>{{.M.Context.Build}}</td></tr>
<tr><td>Стенд:</td><td>{{.Stand}}</td></tr>
<tr><td>Инструменты:</td><td>{{.M.Context.Tools}}</td></tr>
<tr><td>Методология:</td><td>{{.M.Context.Methodology}}</td></tr>
</table>

<h2>{{.Lay.SectionModules}}</h2>
{{range .Modules}}<h3>{{.Heading}}</h3>
<table>
<tr><th style="width: 15%;">ID</th><th style="width: 45%;">Сценарий</th><th style="width: 12%;">Статус</th><th style="width: 28%;">Комментарий</th></tr>
{{if .Rows}}{{range .Rows}}<tr><td>{{.ID}}</td><td>{{.Scenario}}</td><td class="{{.StatusClass}}">{{.Status}}</td><td>{{.Comment}}</td></tr>
{{end}}{{else}}<tr><td colspan="4" style="text-align:center">{{$.Lay.NoDataLabel}}</td></tr>
{{end}}</table>
{{end}}
<h2>{{.Lay.SectionDefects}}</h2>
<table>
<tr><th style="width: 15%;">ID</th><th style="width: 15%;">Модуль</th><th>Заголовок</th><th style="width: 20%;">Серьёзность</th><th style="width: 15%;">Статус</th></tr>
{{if .Defects}}{{range .Defects}}<tr><td>{{.ID}}</td><td>{{.Module}}</td><td>{{.Title}}</td><td class="{{.SeverityClass}}">{{.Severity}}</td><td>{{.Status}}</td></tr>
{{end}}{{else}}<tr><td colspan="5" style="text-align:center">{{.Lay.NoDataLabel}}</td></tr>
{{end}}</table>
<p><strong>Последствия:</strong> {{range $i, $line := .Consequences}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>

<h2>{{.Lay.SectionLimitations}}</h2>
<ol>
{{range .Limitations}}<li>{{.}}</li>
{{end}}</ol>

<h2>{{.Lay.SectionConclusion}}</h2>
<p><strong>Вывод:</strong> {{.M.Narrative.Conclusion}}</p>
<p><strong>Рекомендации:</strong></p>
<ul>
{{range .Recommendations}}<li>{{.}}</li>
{{end}}</ul>

<h2>{{.Lay.SectionSignature}}</h2>
<table class="fact-table">
<tr><td>Роль:</td><td>{{.M.Signature.Role}}</td></tr>
<tr><td>ФИО:</td><td>{{.M.Signature.FullName}}</td></tr>
<tr><td>Дата:</td><td>{{.M.Signature.Date}}</td></tr>
</table>
</body>
</html>
`
