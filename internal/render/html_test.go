package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/render"
)

func renderHTML(t *testing.T, m schemas.ReportModel) (*html.Node, string) {
	t.Helper()
	data, err := render.NewHTMLRenderer(render.DefaultLayout()).Render(&m)
	require.NoError(t, err)
	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err, "output should be parseable HTML")
	return doc, string(data)
}

// collect walks the tree gathering nodes matching the predicate.
func collect(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestHTMLSectionsAndNumbers(t *testing.T) {
	_, raw := renderHTML(t, schemas.ExampleModel())

	lay := render.DefaultLayout()
	pos := -1
	for _, s := range []string{
		lay.SectionSummary, lay.SectionContext, lay.SectionModules,
		lay.SectionDefects, lay.SectionLimitations, lay.SectionConclusion, lay.SectionSignature,
	} {
		idx := strings.Index(raw, s)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", s)
		assert.Greater(t, idx, pos, "section %q out of order", s)
		pos = idx
	}

	assert.Contains(t, raw, "69 (95.8%)")
	assert.Contains(t, raw, "3 (4.2%)")
}

func TestHTMLChartsEmbeddedAsDataURIs(t *testing.T) {
	doc, _ := renderHTML(t, schemas.ExampleModel())

	imgs := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img"
	})
	require.Len(t, imgs, 2)
	for _, img := range imgs {
		assert.True(t, strings.HasPrefix(attr(img, "src"), "data:image/png;base64,"),
			"charts must be inlined, not referenced")
	}
}

func TestHTMLStatusAndSeverityClasses(t *testing.T) {
	doc, _ := renderHTML(t, schemas.ExampleModel())

	passCells := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "td" && attr(n, "class") == "status-pass"
	})
	failCells := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "td" && attr(n, "class") == "status-fail"
	})
	critCells := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "td" && attr(n, "class") == "sev-critical"
	})
	assert.NotEmpty(t, passCells)
	assert.NotEmpty(t, failCells)
	assert.NotEmpty(t, critCells)
}

func TestHTMLEscapesUserInput(t *testing.T) {
	m := schemas.ExampleModel()
	m.Header.Project = `<script>alert("x")</script>`
	m.Modules[0].Cases[0].Comment = `a < b & c > d`

	_, raw := renderHTML(t, m)
	assert.NotContains(t, raw, `<script>alert`)
	assert.Contains(t, raw, "&lt;script&gt;")
	assert.Contains(t, raw, "a &lt; b &amp; c &gt; d")
}

func TestHTMLEmptyTablesShowPlaceholderRow(t *testing.T) {
	m := schemas.ExampleModel()
	m.Modules = []schemas.Module{{Title: "Пустой модуль"}}
	m.Defects = nil

	doc, _ := renderHTML(t, m)
	lay := render.DefaultLayout()

	spans := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "td" && attr(n, "colspan") != ""
	})
	require.Len(t, spans, 2)
	assert.Equal(t, "4", attr(spans[0], "colspan"))
	assert.Equal(t, lay.NoDataLabel, strings.TrimSpace(nodeText(spans[0])))
	assert.Equal(t, "5", attr(spans[1], "colspan"))
}

func TestHTMLListMarkersNotDoubled(t *testing.T) {
	m := schemas.ExampleModel()
	m.Narrative.Recommendations = "- Первая рекомендация\n- Вторая рекомендация"

	doc, _ := renderHTML(t, m)
	items := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "li"
	})
	require.NotEmpty(t, items)
	for _, li := range items {
		text := strings.TrimSpace(nodeText(li))
		assert.False(t, strings.HasPrefix(text, "-"), "list marker leaked into item: %q", text)
	}
}

func TestHTMLMismatchBannerWhenDrivenDirectly(t *testing.T) {
	m := schemas.ExampleModel()
	m.Summary.Pass = 10
	m.Summary.Fail = 5
	m.Summary.Total = 14

	doc, _ := renderHTML(t, m)
	banners := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && attr(n, "class") == "warning-banner"
	})
	require.Len(t, banners, 1)
	assert.Contains(t, nodeText(banners[0]), "не равна общему количеству")
}
