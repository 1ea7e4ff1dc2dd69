package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/icherkasov/reportgen/api/schemas"
)

// xlsxSheetName is the single worksheet every section is written to.
const xlsxSheetName = "Отчёт о тестировании"

// XLSXRenderer writes the report to one worksheet as a linear sequence of
// sections, each introduced by a merged, colored band. A running row cursor
// advances as sections are emitted; nothing is positioned absolutely.
type XLSXRenderer struct {
	lay Layout
}

// NewXLSXRenderer returns a renderer bound to the given layout constants.
func NewXLSXRenderer(lay Layout) *XLSXRenderer {
	return &XLSXRenderer{lay: lay}
}

// Format implements Renderer.
func (r *XLSXRenderer) Format() string { return "xlsx" }

// xlsxStyles caches the style IDs registered on one workbook.
type xlsxStyles struct {
	title     int
	band      map[string]int // keyed by ARGB fill
	label     int
	value     int
	tableHead int
	cellLeft  int
	cellMid   int
	passCell  int
	failCell  int
	critCell  int
	majorCell int
}

// Render implements Renderer.
func (r *XLSXRenderer) Render(m *schemas.ReportModel) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := r.registerStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	for i, w := range r.lay.XLSXColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(xlsxSheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	c := &xlsxCursor{f: f, lay: r.lay, st: st, row: 1}
	if err := c.writeReport(m); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *XLSXRenderer) registerStyles(f *excelize.File) (*xlsxStyles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	fill := func(argb string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{argb}, Pattern: 1}
	}
	st := &xlsxStyles{band: make(map[string]int)}
	var err error

	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Calibri Light", Size: 16, Bold: true, Color: "FFFFFF"},
		Fill:      fill(r.lay.XLSXHeaderFill),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, err
	}

	for _, argb := range []string{
		r.lay.XLSXSectionFill, r.lay.XLSXContextFill, r.lay.XLSXDefectsFill,
		r.lay.XLSXNotesFill, r.lay.XLSXSignatureFill,
	} {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Size: 12, Bold: true, Color: "FFFFFF"},
			Fill:      fill(argb),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thin,
		})
		if err != nil {
			return nil, err
		}
		st.band[argb] = id
	}

	st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "top", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, err
	}
	st.value, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, err
	}
	st.tableHead, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      fill(r.lay.XLSXHeaderFill),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, err
	}
	st.cellLeft = st.value
	st.cellMid, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, err
	}

	statusStyle := func(fillARGB, fontHex string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: fontHex},
			Fill:      fill(fillARGB),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thin,
		})
	}
	if st.passCell, err = statusStyle("FF"+r.lay.PassFillLight[1:], r.lay.PassTextDark[1:]); err != nil {
		return nil, err
	}
	if st.failCell, err = statusStyle("FF"+r.lay.FailFillLight[1:], r.lay.FailTextDark[1:]); err != nil {
		return nil, err
	}
	if st.critCell, err = statusStyle("FF"+r.lay.FailFillLight[1:], r.lay.FailTextDark[1:]); err != nil {
		return nil, err
	}
	if st.majorCell, err = statusStyle("FFFFE0B2", "9C5700"); err != nil {
		return nil, err
	}
	return st, nil
}

// xlsxCursor tracks the current row while sections are appended.
type xlsxCursor struct {
	f   *excelize.File
	lay Layout
	st  *xlsxStyles
	row int
}

func (c *xlsxCursor) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, c.row)
	return name
}

// mergedRow writes one value merged across A..E with the given style.
func (c *xlsxCursor) mergedRow(value string, styleID int) error {
	start, end := c.cell(1), c.cell(5)
	if err := c.f.MergeCell(xlsxSheetName, start, end); err != nil {
		return err
	}
	if err := c.f.SetCellValue(xlsxSheetName, start, value); err != nil {
		return err
	}
	if err := c.f.SetCellStyle(xlsxSheetName, start, end, styleID); err != nil {
		return err
	}
	c.row++
	return nil
}

// band writes a section heading band.
func (c *xlsxCursor) band(title, fillARGB string) error {
	return c.mergedRow(title, c.st.band[fillARGB])
}

// factRow writes a label in column A and the value merged across B..E.
func (c *xlsxCursor) factRow(label, value string) error {
	a := c.cell(1)
	if err := c.f.SetCellValue(xlsxSheetName, a, label); err != nil {
		return err
	}
	if err := c.f.SetCellStyle(xlsxSheetName, a, a, c.st.label); err != nil {
		return err
	}
	b, e := c.cell(2), c.cell(5)
	if err := c.f.MergeCell(xlsxSheetName, b, e); err != nil {
		return err
	}
	if err := c.f.SetCellValue(xlsxSheetName, b, DisplayValue(value, c.lay.EmptyValue)); err != nil {
		return err
	}
	if err := c.f.SetCellStyle(xlsxSheetName, b, e, c.st.value); err != nil {
		return err
	}
	c.row++
	return nil
}

// headerRow writes the bold white-on-blue header of a tabular section.
func (c *xlsxCursor) headerRow(headers []string) error {
	for i, h := range headers {
		cell := c.cell(i + 1)
		if err := c.f.SetCellValue(xlsxSheetName, cell, h); err != nil {
			return err
		}
		if err := c.f.SetCellStyle(xlsxSheetName, cell, cell, c.st.tableHead); err != nil {
			return err
		}
	}
	c.row++
	return nil
}

// dataCell writes a value with the given style into the current row.
func (c *xlsxCursor) dataCell(col int, value string, styleID int) error {
	cell := c.cell(col)
	if err := c.f.SetCellValue(xlsxSheetName, cell, DisplayValue(value, c.lay.EmptyValue)); err != nil {
		return err
	}
	return c.f.SetCellStyle(xlsxSheetName, cell, cell, styleID)
}

// statusStyleFor picks the conditional fill for a test status value.
func (c *xlsxCursor) statusStyleFor(status string) int {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PASS":
		return c.st.passCell
	case "FAIL":
		return c.st.failCell
	default:
		return c.st.cellMid
	}
}

// severityStyleFor picks the conditional fill for a defect severity.
func (c *xlsxCursor) severityStyleFor(sev schemas.Severity) int {
	switch {
	case sev.IsCritical():
		return c.st.critCell
	case sev.IsMajor():
		return c.st.majorCell
	default:
		return c.st.cellMid
	}
}

// blank skips one row between sections.
func (c *xlsxCursor) blank() { c.row++ }

func (c *xlsxCursor) writeReport(m *schemas.ReportModel) error {
	s := m.Summary

	if err := c.mergedRow(m.Header.ReportTitle, c.st.title); err != nil {
		return err
	}
	c.blank()

	if err := c.band("КЛЮЧЕВЫЕ МЕТРИКИ", c.lay.XLSXSectionFill); err != nil {
		return err
	}
	metricRows := [][2]string{
		{"Проект", m.Header.Project},
		{"Версия", m.Header.Version},
		{"Период тестирования", m.Header.TestPeriod},
		{"Всего тест-кейсов", fmt.Sprintf("%d", s.Total)},
		{"Успешно (Pass)", FormatCountPercent(s.Pass, s.PassPercent())},
		{"Упали (Fail)", FormatCountPercent(s.Fail, s.FailPercent())},
		{"Critical (S1)", fmt.Sprintf("%d", s.Critical)},
		{"Major (S2)", fmt.Sprintf("%d", s.Major)},
		{"Статус релиза", s.ReleaseStatus},
		{"Рекомендация", s.Recommendation},
	}
	for _, row := range metricRows {
		if err := c.factRow(row[0], row[1]); err != nil {
			return err
		}
	}
	c.blank()

	if err := c.band("КОНТЕКСТ ТЕСТИРОВАНИЯ", c.lay.XLSXContextFill); err != nil {
		return err
	}
	contextRows := [][2]string{
		{"Устройство / Браузер", m.Context.DeviceBrowser},
		{"ОС / Платформа", m.Context.OSPlatform},
		{"Сборка / Версия", m.Context.Build},
		{"Стенд", strings.TrimSpace(m.Context.EnvURL)},
		{"Инструменты", m.Context.Tools},
		{"Методология", m.Context.Methodology},
		{"Тест-инженер", m.Header.Engineer},
		{"Дата формирования", m.Header.ReportDate},
	}
	for _, row := range contextRows {
		if err := c.factRow(row[0], row[1]); err != nil {
			return err
		}
	}
	c.blank()

	if err := c.band("РЕЗУЛЬТАТЫ ТЕСТИРОВАНИЯ ПО МОДУЛЯМ", c.lay.XLSXSectionFill); err != nil {
		return err
	}
	if err := c.headerRow(c.lay.XLSXCaseHeaders); err != nil {
		return err
	}
	for _, mod := range m.Modules {
		if len(mod.Cases) == 0 {
			if err := c.mergedRow(fmt.Sprintf("Нет данных для модуля: %s", mod.Title), c.st.cellMid); err != nil {
				return err
			}
			continue
		}
		for _, tc := range mod.Cases {
			if err := c.dataCell(1, mod.Title, c.st.cellLeft); err != nil {
				return err
			}
			if err := c.dataCell(2, tc.ID, c.st.cellMid); err != nil {
				return err
			}
			if err := c.dataCell(3, tc.Scenario, c.st.cellLeft); err != nil {
				return err
			}
			if err := c.dataCell(4, string(tc.Status), c.statusStyleFor(string(tc.Status))); err != nil {
				return err
			}
			if err := c.dataCell(5, tc.Comment, c.st.cellLeft); err != nil {
				return err
			}
			c.row++
		}
	}
	c.blank()

	if err := c.band("АНАЛИЗ ДЕФЕКТОВ", c.lay.XLSXDefectsFill); err != nil {
		return err
	}
	if err := c.headerRow(c.lay.DefectHeaders); err != nil {
		return err
	}
	if len(m.Defects) == 0 {
		if err := c.mergedRow("Нет зарегистрированных дефектов", c.st.cellMid); err != nil {
			return err
		}
	} else {
		for _, d := range m.Defects {
			if err := c.dataCell(1, d.ID, c.st.cellMid); err != nil {
				return err
			}
			if err := c.dataCell(2, d.Module, c.st.cellMid); err != nil {
				return err
			}
			if err := c.dataCell(3, d.Title, c.st.cellLeft); err != nil {
				return err
			}
			if err := c.dataCell(4, string(d.Severity), c.severityStyleFor(d.Severity)); err != nil {
				return err
			}
			if err := c.dataCell(5, string(d.Status), c.st.cellLeft); err != nil {
				return err
			}
			c.row++
		}
	}
	c.blank()

	narrative := []struct {
		title string
		text  string
	}{
		{"ОГРАНИЧЕНИЯ ТЕСТИРОВАНИЯ", m.Narrative.Limitations},
		{"ВЫВОД", m.Narrative.Conclusion},
		{"РЕКОМЕНДАЦИИ", m.Narrative.Recommendations},
	}
	for _, sec := range narrative {
		if err := c.band(sec.title, c.lay.XLSXNotesFill); err != nil {
			return err
		}
		for _, line := range Lines(sec.text) {
			if err := c.mergedRow(line, c.st.value); err != nil {
				return err
			}
		}
		c.blank()
	}

	if err := c.band("Подпись", c.lay.XLSXSignatureFill); err != nil {
		return err
	}
	signatureRows := [][2]string{
		{"Роль", m.Signature.Role},
		{"ФИО", m.Signature.FullName},
		{"Дата", m.Signature.Date},
	}
	for _, row := range signatureRows {
		if err := c.factRow(row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
