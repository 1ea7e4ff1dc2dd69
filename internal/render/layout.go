package render

// Layout is the single table of visual constants shared by the three
// renderers. Keeping every hard-coded label, color and proportion in one
// structure is what guarantees the formats cannot drift apart.
type Layout struct {
	// Section headings, in document order. The numeric prefixes (1..7) are
	// part of the corporate template and are emitted verbatim.
	SectionSummary     string
	SectionContext     string
	SectionModules     string
	SectionDefects     string
	SectionLimitations string
	SectionConclusion  string
	SectionSignature   string

	// Chart captions.
	OutcomeChartCaption  string
	SeverityChartCaption string

	// Placeholder shown in place of an empty table and for blank cell values.
	NoDataLabel string
	EmptyValue  string

	// Fact tables: label column share of the full content width.
	FactLabelRatio float64
	// Data tables (modules, defects): first column share.
	DataFirstColRatio float64
	// DOCX content width in twips (6.5 inches at 1440 twips/inch).
	PageWidthTwips int

	// Status and severity colors, #RRGGBB. Used by the charts, the HTML
	// classes and (converted to ARGB) the XLSX fills.
	PassColor     string
	FailColor     string
	MajorColor    string
	PassTextDark  string
	FailTextDark  string
	PassFillLight string
	FailFillLight string

	// XLSX section band fills, ARGB.
	XLSXHeaderFill    string
	XLSXSectionFill   string
	XLSXContextFill   string
	XLSXDefectsFill   string
	XLSXNotesFill     string
	XLSXSignatureFill string
	// XLSX column widths for columns A..E, in characters.
	XLSXColWidths [5]float64

	// Table column headers.
	TestCaseHeaders []string // ID, scenario, status, comment.
	DefectHeaders   []string // ID, module, title, severity, status.
	XLSXCaseHeaders []string // Module name + the four test case columns.
}

// DefaultLayout returns the corporate template constants.
func DefaultLayout() Layout {
	return Layout{
		SectionSummary:     "1. КРАТКОЕ РЕЗЮМЕ",
		SectionContext:     "2. КОНТЕКСТ ТЕСТИРОВАНИЯ",
		SectionModules:     "3. РЕЗУЛЬТАТЫ ТЕСТИРОВАНИЯ ПО МОДУЛЯМ",
		SectionDefects:     "4. АНАЛИЗ ДЕФЕКТОВ",
		SectionLimitations: "5. ОГРАНИЧЕНИЯ ТЕСТИРОВАНИЯ",
		SectionConclusion:  "6. ВЫВОД И РЕКОМЕНДАЦИИ",
		SectionSignature:   "7. ПОДПИСЬ",

		OutcomeChartCaption:  "Рис. 1. Распределение результатов тест-кейсов",
		SeverityChartCaption: "Рис. 2. Дефекты по уровню серьёзности",

		NoDataLabel: "Нет данных для отображения",
		EmptyValue:  "—",

		FactLabelRatio:    0.25,
		DataFirstColRatio: 0.15,
		PageWidthTwips:    9360,

		PassColor:     "#4CAF50",
		FailColor:     "#F44336",
		MajorColor:    "#FF9800",
		PassTextDark:  "#006100",
		FailTextDark:  "#9C0006",
		PassFillLight: "#C6EFCE",
		FailFillLight: "#FFC7CE",

		XLSXHeaderFill:    "FF4472C4",
		XLSXSectionFill:   "FF5B9BD5",
		XLSXContextFill:   "FF70AD47",
		XLSXDefectsFill:   "FF7030A0",
		XLSXNotesFill:     "FFFFC000",
		XLSXSignatureFill: "FF333333",
		XLSXColWidths:     [5]float64{22, 14, 32, 12, 35},

		TestCaseHeaders: []string{"ID", "Сценарий", "Статус", "Комментарий"},
		DefectHeaders:   []string{"ID", "Модуль", "Заголовок", "Серьёзность", "Статус"},
		XLSXCaseHeaders: []string{"Модуль", "ID", "Сценарий", "Статус", "Комментарий"},
	}
}

// Download filenames and MIME types, fixed per format.
const (
	DOCXFilename = "Отчёт_о_тестировании.docx"
	HTMLFilename = "Отчёт_о_тестировании.html"
	XLSXFilename = "Отчёт_о_тестировании.xlsx"

	DOCXMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	HTMLMIME = "text/html; charset=utf-8"
	XLSXMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
