// File: internal/server/templates.go
package server

import (
	"html/template"
	"time"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/draft"
	"github.com/icherkasov/reportgen/internal/render"
)

// formView feeds the form page template.
type formView struct {
	Model    *schemas.ReportModel
	Problems []string // combined parse + validation problems, in order
	Detail   string   // technical detail for the expandable block
	Drafts   []draft.Info
	SavedID  string // just-saved draft, for the confirmation banner
}

// resultView feeds the results page.
type resultView struct {
	ID      string
	Project string
	Outputs []render.Output
}

// Failed reports whether at least one format did not render.
func (v resultView) Failed() bool {
	for _, out := range v.Outputs {
		if out.Err != nil {
			return true
		}
	}
	return false
}

var templateFuncs = template.FuncMap{
	"fmtTime": func(t time.Time) string { return t.Local().Format("02.01.2006 15:04") },
}

var formTemplate = template.Must(template.New("form").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Генератор отчёта о тестировании</title>
<style>
  body { font-family: 'Calibri Light', Calibri, sans-serif; font-size: 14px; margin: 24px auto; max-width: 960px; color: #333; }
  h1 { font-size: 22px; }
  h2 { font-size: 16px; border-bottom: 1px solid #ccc; padding-bottom: 4px; margin-top: 28px; }
  fieldset { border: 1px solid #ddd; margin-bottom: 16px; padding: 12px; }
  label { display: block; margin-top: 8px; font-weight: bold; }
  input[type=text], input[type=number], textarea, select { width: 100%; box-sizing: border-box; padding: 5px; margin-top: 2px; }
  textarea { min-height: 70px; }
  table { border-collapse: collapse; width: 100%; margin-top: 8px; }
  th, td { border: 1px solid #ccc; padding: 4px; }
  th { background: #4472C4; color: #fff; }
  .errors { background: #FFC7CE; color: #9C0006; border: 1px solid #9C0006; padding: 10px 16px; margin-bottom: 16px; }
  .saved { background: #C6EFCE; color: #006100; border: 1px solid #006100; padding: 10px 16px; margin-bottom: 16px; }
  .row3 { display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 12px; }
  .actions { margin-top: 20px; }
  button { padding: 8px 18px; font-size: 14px; }
  details pre { background: #f5f5f5; padding: 8px; overflow-x: auto; }
</style>
</head>
<body>
<h1>Отчёт о тестировании</h1>

{{if .SavedID}}<div class="saved">Черновик сохранён: {{.SavedID}}</div>{{end}}

{{if .Problems}}
<div class="errors">
  <strong>Исправьте следующие ошибки:</strong>
  <ul>{{range .Problems}}<li>{{.}}</li>{{end}}</ul>
  {{if $.Detail}}
  <details><summary>Подробности ошибки</summary><pre>{{$.Detail}}</pre></details>
  {{end}}
</div>
{{end}}

{{if .Drafts}}
<fieldset>
  <legend>Черновики</legend>
  <ul>
  {{range .Drafts}}
    <li><a href="/?draft={{.ID}}">{{.Project}} — {{fmtTime .SavedAt}}</a></li>
  {{end}}
  </ul>
</fieldset>
{{end}}

<form method="post" action="/generate" id="report-form">
{{with .Model}}
<h2>Шапка отчёта</h2>
<fieldset>
  <label>Название отчёта <input type="text" name="report_title" value="{{.Header.ReportTitle}}"></label>
  <div class="row3">
    <label>Проект <input type="text" name="project" value="{{.Header.Project}}"></label>
    <label>Тип приложения <input type="text" name="app_type" value="{{.Header.AppType}}"></label>
    <label>Версия приложения <input type="text" name="version" value="{{.Header.Version}}"></label>
  </div>
  <div class="row3">
    <label>Период тестирования <input type="text" name="test_period" value="{{.Header.TestPeriod}}"></label>
    <label>Дата формирования отчёта <input type="text" name="report_date" value="{{.Header.ReportDate}}"></label>
    <label>Тест-инженер <input type="text" name="engineer" value="{{.Header.Engineer}}"></label>
  </div>
</fieldset>

<h2>1. Краткое резюме</h2>
<fieldset>
  <label>Статус релиза <input type="text" name="release_status" value="{{.Summary.ReleaseStatus}}"></label>
  <div class="row3">
    <label>Критические дефекты (S1) <input type="number" name="s1" value="{{.Summary.Critical}}"></label>
    <label>Значительные дефекты (S2) <input type="number" name="s2" value="{{.Summary.Major}}"></label>
    <label>Всего тест-кейсов <input type="number" name="total_tc" value="{{.Summary.Total}}"></label>
  </div>
  <div class="row3">
    <label>Пройдено (PASS) <input type="number" name="pass" value="{{.Summary.Pass}}"></label>
    <label>Провалено (FAIL) <input type="number" name="fail" value="{{.Summary.Fail}}"></label>
  </div>
  <label>Ключевой риск <textarea name="risk">{{.Summary.Risk}}</textarea></label>
  <label>Рекомендация <textarea name="recommendation">{{.Summary.Recommendation}}</textarea></label>
</fieldset>

<h2>2. Контекст тестирования</h2>
<fieldset>
  <div class="row3">
    <label>Устройство / браузер <input type="text" name="device_browser" value="{{.Context.DeviceBrowser}}"></label>
    <label>ОС / платформа <input type="text" name="os_platform" value="{{.Context.OSPlatform}}"></label>
    <label>Сборка <input type="text" name="build" value="{{.Context.Build}}"></label>
  </div>
  <label>URL стенда <input type="text" name="env_url" value="{{.Context.EnvURL}}"></label>
  <label>Инструменты <input type="text" name="tools" value="{{.Context.Tools}}"></label>
  <label>Методология <input type="text" name="methodology" value="{{.Context.Methodology}}"></label>
</fieldset>

<h2>3. Результаты по модулям</h2>
<input type="hidden" name="module_count" id="module_count" value="{{len .Modules}}">
<div id="modules">
{{range $i, $mod := .Modules}}
<fieldset class="module">
  <legend>Модуль {{$i}}</legend>
  <label>Название модуля <input type="text" name="module_{{$i}}_title" value="{{$mod.Title}}"></label>
  <input type="hidden" name="module_{{$i}}_rows" value="{{len $mod.Cases}}" class="rows-count">
  <table>
    <tr><th>ID</th><th>Сценарий</th><th>Статус</th><th>Комментарий</th></tr>
    {{range $j, $c := $mod.Cases}}
    <tr>
      <td><input type="text" name="module_{{$i}}_case_{{$j}}_id" value="{{$c.ID}}"></td>
      <td><input type="text" name="module_{{$i}}_case_{{$j}}_scenario" value="{{$c.Scenario}}"></td>
      <td><select name="module_{{$i}}_case_{{$j}}_status">
        <option{{if eq (printf "%s" $c.Status) "PASS"}} selected{{end}}>PASS</option>
        <option{{if eq (printf "%s" $c.Status) "FAIL"}} selected{{end}}>FAIL</option>
        <option{{if eq (printf "%s" $c.Status) "SKIP"}} selected{{end}}>SKIP</option>
      </select></td>
      <td><input type="text" name="module_{{$i}}_case_{{$j}}_comment" value="{{$c.Comment}}"></td>
    </tr>
    {{end}}
  </table>
  <button type="button" onclick="addCaseRow(this)">Добавить кейс</button>
</fieldset>
{{end}}
</div>
<button type="button" onclick="addModule()">Добавить модуль</button>

<h2>4. Анализ дефектов</h2>
<fieldset>
  <input type="hidden" name="defect_rows" id="defect_rows" value="{{len .Defects}}">
  <table id="defects-table">
    <tr><th>ID</th><th>Модуль</th><th>Описание</th><th>Серьёзность</th><th>Статус</th></tr>
    {{range $j, $d := .Defects}}
    <tr>
      <td><input type="text" name="defect_{{$j}}_id" value="{{$d.ID}}"></td>
      <td><input type="text" name="defect_{{$j}}_module" value="{{$d.Module}}"></td>
      <td><input type="text" name="defect_{{$j}}_title" value="{{$d.Title}}"></td>
      <td><select name="defect_{{$j}}_severity">
        <option{{if eq (printf "%s" $d.Severity) "Critical (S1)"}} selected{{end}}>Critical (S1)</option>
        <option{{if eq (printf "%s" $d.Severity) "Major (S2)"}} selected{{end}}>Major (S2)</option>
        <option{{if eq (printf "%s" $d.Severity) "Minor (S3)"}} selected{{end}}>Minor (S3)</option>
      </select></td>
      <td><select name="defect_{{$j}}_status">
        <option{{if eq (printf "%s" $d.Status) "New"}} selected{{end}}>New</option>
        <option{{if eq (printf "%s" $d.Status) "Open"}} selected{{end}}>Open</option>
        <option{{if eq (printf "%s" $d.Status) "Fixed"}} selected{{end}}>Fixed</option>
        <option{{if eq (printf "%s" $d.Status) "Closed"}} selected{{end}}>Closed</option>
      </select></td>
    </tr>
    {{end}}
  </table>
  <button type="button" onclick="addDefectRow()">Добавить дефект</button>
  <label>Последствия дефектов <textarea name="consequences">{{.Narrative.Consequences}}</textarea></label>
</fieldset>

<h2>5–6. Ограничения, вывод и рекомендации</h2>
<fieldset>
  <label>Ограничения тестирования (по строке на пункт) <textarea name="limitations">{{.Narrative.Limitations}}</textarea></label>
  <label>Вывод <textarea name="conclusion">{{.Narrative.Conclusion}}</textarea></label>
  <label>Рекомендации (по строке на пункт) <textarea name="recommendations_detailed">{{.Narrative.Recommendations}}</textarea></label>
</fieldset>

<h2>7. Подпись</h2>
<fieldset>
  <div class="row3">
    <label>Роль <input type="text" name="sig_role" value="{{.Signature.Role}}"></label>
    <label>ФИО <input type="text" name="sig_fullname" value="{{.Signature.FullName}}"></label>
    <label>Дата подписи <input type="text" name="sig_date" value="{{.Signature.Date}}"></label>
  </div>
</fieldset>
{{end}}

<div class="actions">
  <button type="submit">Сформировать отчёт</button>
  <button type="submit" formaction="/drafts/save">Сохранить черновик</button>
</div>
</form>

<script>
function renumber(input, re, n) { input.name = input.name.replace(re, n); }
function addCaseRow(btn) {
  const fs = btn.closest('fieldset');
  const count = fs.querySelector('.rows-count');
  const mi = count.name.match(/module_(\d+)_rows/)[1];
  const j = parseInt(count.value, 10);
  const table = fs.querySelector('table');
  const row = table.insertRow(-1);
  row.innerHTML =
    '<td><input type="text" name="module_' + mi + '_case_' + j + '_id"></td>' +
    '<td><input type="text" name="module_' + mi + '_case_' + j + '_scenario"></td>' +
    '<td><select name="module_' + mi + '_case_' + j + '_status"><option>PASS</option><option>FAIL</option><option>SKIP</option></select></td>' +
    '<td><input type="text" name="module_' + mi + '_case_' + j + '_comment"></td>';
  count.value = j + 1;
}
function addDefectRow() {
  const count = document.getElementById('defect_rows');
  const j = parseInt(count.value, 10);
  const row = document.getElementById('defects-table').insertRow(-1);
  row.innerHTML =
    '<td><input type="text" name="defect_' + j + '_id"></td>' +
    '<td><input type="text" name="defect_' + j + '_module"></td>' +
    '<td><input type="text" name="defect_' + j + '_title"></td>' +
    '<td><select name="defect_' + j + '_severity"><option>Critical (S1)</option><option>Major (S2)</option><option>Minor (S3)</option></select></td>' +
    '<td><select name="defect_' + j + '_status"><option>New</option><option>Open</option><option>Fixed</option><option>Closed</option></select></td>';
  count.value = j + 1;
}
function addModule() {
  const count = document.getElementById('module_count');
  const i = parseInt(count.value, 10);
  if (i >= 10) { alert('Не более 10 модулей'); return; }
  const div = document.createElement('fieldset');
  div.className = 'module';
  div.innerHTML =
    '<legend>Модуль ' + i + '</legend>' +
    '<label>Название модуля <input type="text" name="module_' + i + '_title"></label>' +
    '<input type="hidden" name="module_' + i + '_rows" value="0" class="rows-count">' +
    '<table><tr><th>ID</th><th>Сценарий</th><th>Статус</th><th>Комментарий</th></tr></table>' +
    '<button type="button" onclick="addCaseRow(this)">Добавить кейс</button>';
  document.getElementById('modules').appendChild(div);
  count.value = i + 1;
}
</script>
</body>
</html>
`))

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Отчёт сформирован</title>
<style>
  body { font-family: 'Calibri Light', Calibri, sans-serif; font-size: 14px; margin: 24px auto; max-width: 720px; color: #333; }
  .ok { color: #006100; }
  .fail { color: #9C0006; }
  li { margin-bottom: 8px; }
  details pre { background: #f5f5f5; padding: 8px; overflow-x: auto; }
</style>
</head>
<body>
<h1>Отчёт по проекту «{{.Project}}»</h1>
{{if .Failed}}<p class="fail">Часть форматов не сформирована; остальные доступны для скачивания.</p>{{end}}
<ul>
{{range .Outputs}}
  {{if .Err}}
  <li class="fail">{{.Format}}: ошибка формирования
    <details><summary>Подробности ошибки</summary><pre>{{.Err}}</pre></details>
  </li>
  {{else}}
  <li class="ok"><a href="/download/{{$.ID}}/{{.Format}}">{{.Filename}}</a></li>
  {{end}}
{{end}}
</ul>
<p><a href="/">← Вернуться к форме</a></p>
</body>
</html>
`))
