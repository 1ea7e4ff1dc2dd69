package render

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"github.com/icherkasov/reportgen/api/schemas"
)

// EMU per inch; OOXML drawing sizes are specified in English Metric Units.
const emuPerInch = 914400

// Embedded chart size: 5 inches wide at the charts' 4:3 aspect ratio.
const (
	chartEMUWidth  = 5 * emuPerInch
	chartEMUHeight = chartEMUWidth * chartHeight / chartWidth
)

// DOCXRenderer builds the WordprocessingML document. The document part is
// assembled as an XML tree; the high-level structure (title, fact tables,
// charts, per-module tables, lists, signature) mirrors the other formats.
type DOCXRenderer struct {
	lay Layout
}

// NewDOCXRenderer returns a renderer bound to the given layout constants.
func NewDOCXRenderer(lay Layout) *DOCXRenderer {
	return &DOCXRenderer{lay: lay}
}

// Format implements Renderer.
func (r *DOCXRenderer) Format() string { return "docx" }

// Render implements Renderer.
func (r *DOCXRenderer) Render(m *schemas.ReportModel) ([]byte, error) {
	charts, err := RenderCharts(m.Summary.Pass, m.Summary.Fail, m.Summary.Critical, m.Summary.Major)
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	b := newDocBuilder(r.lay)
	b.buildBody(m)

	docXML, err := b.serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return packDOCX(docXML, charts)
}

// packDOCX assembles the OOXML zip container around the document part.
func packDOCX(documentXML []byte, charts *ChartSet) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/styles.xml", []byte(docxStyles)},
		{"word/numbering.xml", []byte(docxNumbering)},
		{"word/media/chart1.png", charts.Outcome},
		{"word/media/chart2.png", charts.Severity},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

// docBuilder accumulates the w:body element of word/document.xml.
type docBuilder struct {
	lay  Layout
	doc  *etree.Document
	body *etree.Element
}

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func newDocBuilder(lay Layout) *docBuilder {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	root.CreateAttr("xmlns:wp", "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing")
	root.CreateAttr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")
	root.CreateAttr("xmlns:pic", "http://schemas.openxmlformats.org/drawingml/2006/picture")

	return &docBuilder{lay: lay, doc: doc, body: root.CreateElement("w:body")}
}

func (b *docBuilder) serialize() ([]byte, error) {
	b.doc.Indent(0)
	return b.doc.WriteToBytes()
}

// buildBody emits the full section sequence.
func (b *docBuilder) buildBody(m *schemas.ReportModel) {
	lay := b.lay
	s := m.Summary

	b.addStyledParagraph("Title", m.Header.ReportTitle)

	b.addFactTable([][2]string{
		{"Проект:", m.Header.Project},
		{"Тип приложения:", m.Header.AppType},
		{"Версия приложения:", m.Header.Version},
		{"Период тестирования:", m.Header.TestPeriod},
		{"Дата формирования отчёта:", m.Header.ReportDate},
		{"QA-инженер:", m.Header.Engineer},
	})

	b.addStyledParagraph("Heading1", lay.SectionSummary)
	b.addFactTable([][2]string{
		{"Статус релиза:", s.ReleaseStatus},
		{"Критические дефекты (S1):", fmt.Sprintf("%d", s.Critical)},
		{"Мажорные дефекты (S2):", fmt.Sprintf("%d", s.Major)},
		{"Всего тест-кейсов:", fmt.Sprintf("%d", s.Total)},
		{"Успешно (Pass):", FormatCountPercent(s.Pass, s.PassPercent())},
		{"Упали (Fail):", FormatCountPercent(s.Fail, s.FailPercent())},
		{"Основной риск:", s.Risk},
		{"Рекомендация:", s.Recommendation},
	})

	b.addImage("rId10", lay.OutcomeChartCaption)
	b.addImage("rId11", lay.SeverityChartCaption)

	b.addStyledParagraph("Heading1", lay.SectionContext)
	b.addFactTable([][2]string{
		{"Устройство / Браузер:", m.Context.DeviceBrowser},
		{"ОС / Платформа:", m.Context.OSPlatform},
		{"Сборка / Версия:", m.Context.Build},
		{"Стенд:", fmt.Sprintf("Тестовое окружение (адрес: %s)", m.Context.EnvURL)},
		{"Инструменты:", m.Context.Tools},
		{"Методология:", m.Context.Methodology},
	})

	b.addStyledParagraph("Heading1", lay.SectionModules)
	for i, mod := range m.Modules {
		b.addStyledParagraph("Heading2", fmt.Sprintf("3.%d. %s", i+1, mod.Title))
		rows := make([][]string, 0, len(mod.Cases))
		for _, tc := range mod.Cases {
			rows = append(rows, []string{tc.ID, tc.Scenario, string(tc.Status), tc.Comment})
		}
		b.addDataTable(b.lay.TestCaseHeaders, rows)
	}

	b.addStyledParagraph("Heading1", lay.SectionDefects)
	defectRows := make([][]string, 0, len(m.Defects))
	for _, d := range m.Defects {
		defectRows = append(defectRows, []string{d.ID, d.Module, d.Title, string(d.Severity), string(d.Status)})
	}
	b.addDataTable(b.lay.DefectHeaders, defectRows)
	b.addLabeledParagraph("Последствия: ", m.Narrative.Consequences)

	b.addStyledParagraph("Heading1", lay.SectionLimitations)
	for _, line := range Lines(m.Narrative.Limitations) {
		if StartsWithDigit(line) {
			// The user already numbered the line; adding the list style on
			// top would double the numbering.
			b.addPlainParagraph(line)
		} else {
			b.addListParagraph(line, 1)
		}
	}

	b.addStyledParagraph("Heading1", lay.SectionConclusion)
	b.addLabeledParagraph("Вывод: ", m.Narrative.Conclusion)
	b.addLabeledParagraph("Рекомендации:", "")
	for _, line := range Lines(m.Narrative.Recommendations) {
		b.addListParagraph(StripListMarker(line), 2)
	}

	b.addStyledParagraph("Heading1", lay.SectionSignature)
	b.addFactTable([][2]string{
		{"Роль :", m.Signature.Role},
		{"ФИО :", m.Signature.FullName},
		{"Дата :", m.Signature.Date},
	})
}

// -- Paragraph helpers --

func (b *docBuilder) paragraph(styleID string) *etree.Element {
	p := b.body.CreateElement("w:p")
	if styleID != "" {
		pPr := p.CreateElement("w:pPr")
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", styleID)
	}
	return p
}

func addRun(p *etree.Element, text string, bold bool) {
	r := p.CreateElement("w:r")
	if bold {
		r.CreateElement("w:rPr").CreateElement("w:b")
	}
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

func (b *docBuilder) addStyledParagraph(styleID, text string) {
	addRun(b.paragraph(styleID), text, false)
}

func (b *docBuilder) addPlainParagraph(text string) {
	addRun(b.paragraph(""), text, false)
}

// addLabeledParagraph writes "Label: value" with a bold label run.
func (b *docBuilder) addLabeledParagraph(label, value string) {
	p := b.paragraph("")
	addRun(p, label, true)
	if value != "" {
		addRun(p, value, false)
	}
}

// addListParagraph writes one list item using the given numbering definition
// (1 = decimal, 2 = bullet).
func (b *docBuilder) addListParagraph(text string, numID int) {
	p := b.body.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	pPr.CreateElement("w:pStyle").CreateAttr("w:val", "ListParagraph")
	numPr := pPr.CreateElement("w:numPr")
	numPr.CreateElement("w:ilvl").CreateAttr("w:val", "0")
	numPr.CreateElement("w:numId").CreateAttr("w:val", fmt.Sprintf("%d", numID))
	addRun(p, text, false)
}

// -- Table helpers --

// newTable emits a bordered table spanning the content width, with an
// explicit grid so column proportions survive in every word processor. The
// high-level paragraph/run API has no notion of percentage widths, so the
// w:tblGrid and per-cell w:tcW markup is written directly.
func (b *docBuilder) newTable(colWidths []int) *etree.Element {
	tbl := b.body.CreateElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", fmt.Sprintf("%d", b.lay.PageWidthTwips))
	tblW.CreateAttr("w:type", "dxa")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		e := borders.CreateElement("w:" + side)
		e.CreateAttr("w:val", "single")
		e.CreateAttr("w:sz", "4")
		e.CreateAttr("w:color", "000000")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for _, w := range colWidths {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", fmt.Sprintf("%d", w))
	}
	return tbl
}

func addCell(tr *etree.Element, width int, text string, bold bool) {
	tc := tr.CreateElement("w:tc")
	tcPr := tc.CreateElement("w:tcPr")
	tcW := tcPr.CreateElement("w:tcW")
	tcW.CreateAttr("w:w", fmt.Sprintf("%d", width))
	tcW.CreateAttr("w:type", "dxa")
	p := tc.CreateElement("w:p")
	addRun(p, text, bold)
}

// addFactTable emits a two-column label/value table with the fact-table
// proportion applied to the label column.
func (b *docBuilder) addFactTable(rows [][2]string) {
	labelW := int(float64(b.lay.PageWidthTwips) * b.lay.FactLabelRatio)
	valueW := b.lay.PageWidthTwips - labelW

	tbl := b.newTable([]int{labelW, valueW})
	for _, row := range rows {
		tr := tbl.CreateElement("w:tr")
		addCell(tr, labelW, row[0], true)
		addCell(tr, valueW, DisplayValue(row[1], b.lay.EmptyValue), false)
	}
	b.addSpacer()
}

// addDataTable emits a header row plus data rows. The first column takes the
// data-table proportion, the remaining columns split the rest equally. An
// empty row set degrades to a placeholder paragraph rather than a malformed
// zero-row table.
func (b *docBuilder) addDataTable(headers []string, rows [][]string) {
	if len(rows) == 0 || len(headers) == 0 {
		b.addPlainParagraph(b.lay.NoDataLabel)
		b.addSpacer()
		return
	}

	firstW := int(float64(b.lay.PageWidthTwips) * b.lay.DataFirstColRatio)
	restW := (b.lay.PageWidthTwips - firstW) / (len(headers) - 1)
	widths := make([]int, len(headers))
	widths[0] = firstW
	for i := 1; i < len(widths); i++ {
		widths[i] = restW
	}

	tbl := b.newTable(widths)
	hdr := tbl.CreateElement("w:tr")
	for i, h := range headers {
		addCell(hdr, widths[i], h, true)
	}
	for _, row := range rows {
		tr := tbl.CreateElement("w:tr")
		for i := range headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			addCell(tr, widths[i], DisplayValue(val, b.lay.EmptyValue), false)
		}
	}
	b.addSpacer()
}

// addSpacer writes an empty paragraph so adjacent tables do not merge.
func (b *docBuilder) addSpacer() {
	b.body.CreateElement("w:p")
}

// -- Image helper --

// addImage embeds one of the chart PNGs inline, followed by its caption.
func (b *docBuilder) addImage(relID, caption string) {
	p := b.body.CreateElement("w:p")
	r := p.CreateElement("w:r")
	drawing := r.CreateElement("w:drawing")

	inline := drawing.CreateElement("wp:inline")
	for _, a := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(a, "0")
	}
	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", fmt.Sprintf("%d", chartEMUWidth))
	extent.CreateAttr("cy", fmt.Sprintf("%d", chartEMUHeight))
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", relID[3:])
	docPr.CreateAttr("name", caption)

	graphic := inline.CreateElement("a:graphic")
	gd := graphic.CreateElement("a:graphicData")
	gd.CreateAttr("uri", "http://schemas.openxmlformats.org/drawingml/2006/picture")

	picEl := gd.CreateElement("pic:pic")
	nv := picEl.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", relID[3:])
	cNvPr.CreateAttr("name", caption)
	nv.CreateElement("pic:cNvPicPr")

	blipFill := picEl.CreateElement("pic:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := picEl.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprintf("%d", chartEMUWidth))
	ext.CreateAttr("cy", fmt.Sprintf("%d", chartEMUHeight))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	b.addPlainParagraph(caption)
	b.addSpacer()
}
