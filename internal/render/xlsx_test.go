package render_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/render"
)

const sheetName = "Отчёт о тестировании"

func renderXLSX(t *testing.T, m schemas.ReportModel) *excelize.File {
	t.Helper()
	data, err := render.NewXLSXRenderer(render.DefaultLayout()).Render(&m)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "output should be a readable workbook")
	t.Cleanup(func() { f.Close() })
	return f
}

// sheetValues flattens every populated cell value into one slice.
func sheetValues(t *testing.T, f *excelize.File) []string {
	t.Helper()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	var out []string
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				out = append(out, cell)
			}
		}
	}
	return out
}

func TestXLSXSheetAndTitle(t *testing.T) {
	f := renderXLSX(t, schemas.ExampleModel())

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, schemas.ExampleModel().Header.ReportTitle, title)
}

func TestXLSXColumnWidths(t *testing.T) {
	f := renderXLSX(t, schemas.ExampleModel())

	want := render.DefaultLayout().XLSXColWidths
	for i, col := range []string{"A", "B", "C", "D", "E"} {
		w, err := f.GetColWidth(sheetName, col)
		require.NoError(t, err)
		assert.InDelta(t, want[i], w, 0.01, "column %s", col)
	}
}

func TestXLSXSectionBandsPresent(t *testing.T) {
	f := renderXLSX(t, schemas.ExampleModel())
	values := sheetValues(t, f)

	for _, band := range []string{
		"КЛЮЧЕВЫЕ МЕТРИКИ",
		"КОНТЕКСТ ТЕСТИРОВАНИЯ",
		"РЕЗУЛЬТАТЫ ТЕСТИРОВАНИЯ ПО МОДУЛЯМ",
		"АНАЛИЗ ДЕФЕКТОВ",
		"ОГРАНИЧЕНИЯ ТЕСТИРОВАНИЯ",
		"ВЫВОД",
		"РЕКОМЕНДАЦИИ",
		"Подпись",
	} {
		assert.Contains(t, values, band)
	}
}

func TestXLSXMetricsMatchOtherFormats(t *testing.T) {
	m := schemas.ExampleModel()
	f := renderXLSX(t, m)
	values := sheetValues(t, f)

	assert.Contains(t, values, "69 (95.8%)")
	assert.Contains(t, values, "3 (4.2%)")
	assert.Contains(t, values, fmt.Sprint(m.Summary.Total))
	assert.Contains(t, values, m.Summary.ReleaseStatus)
}

func TestXLSXModuleRowsCarryModuleName(t *testing.T) {
	m := schemas.ExampleModel()
	f := renderXLSX(t, m)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	// Find the case table header, then check the first data row repeats the
	// module title in column A.
	for i, row := range rows {
		if len(row) >= 5 && row[0] == "Модуль" && row[1] == "ID" {
			require.Greater(t, len(rows), i+1)
			assert.Equal(t, m.Modules[0].Title, rows[i+1][0])
			assert.Equal(t, m.Modules[0].Cases[0].ID, rows[i+1][1])
			return
		}
	}
	t.Fatal("case table header row not found")
}

func TestXLSXEmptyTablesUsePlaceholders(t *testing.T) {
	m := schemas.ExampleModel()
	m.Modules = []schemas.Module{{Title: "Пустой модуль"}}
	m.Defects = nil

	f := renderXLSX(t, m)
	values := sheetValues(t, f)

	assert.Contains(t, values, "Нет данных для модуля: Пустой модуль")
	assert.Contains(t, values, "Нет зарегистрированных дефектов")
}

func TestXLSXBlankFactValueShowsDash(t *testing.T) {
	m := schemas.ExampleModel()
	m.Signature.FullName = "  "

	f := renderXLSX(t, m)
	values := sheetValues(t, f)
	assert.Contains(t, values, render.DefaultLayout().EmptyValue)
}

func TestXLSXNarrativeLinesOnePerRow(t *testing.T) {
	m := schemas.ExampleModel()
	m.Narrative.Limitations = "Первая строка\nВторая строка"

	f := renderXLSX(t, m)
	values := sheetValues(t, f)
	assert.Contains(t, values, "Первая строка")
	assert.Contains(t, values, "Вторая строка")
}
