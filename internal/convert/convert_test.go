package convert

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/starford/juv/internal/notebook"
)

func codeCell(src string) *notebook.CodeCell {
	return &notebook.CodeCell{CellBase: notebook.CellBase{Source: notebook.SplitLines(src)}}
}

func markdownCell(src string) *notebook.MarkdownCell {
	return &notebook.MarkdownCell{CellBase: notebook.CellBase{Source: notebook.SplitLines(src)}}
}

func rawCell(src string) *notebook.RawCell {
	return &notebook.RawCell{CellBase: notebook.CellBase{Source: notebook.SplitLines(src)}}
}

func nbOf(cells ...notebook.Cell) *notebook.Notebook {
	nb := notebook.New()
	nb.Cells = cells
	return nb
}

func TestScript_SingleCodeCell(t *testing.T) {
	got := Script(nbOf(codeCell("print(1)\n")))
	if want := "# %%\nprint(1)\n"; got != want {
		t.Errorf("script = %q, want %q", got, want)
	}
}

func TestScript_AllCellTypes(t *testing.T) {
	nb := nbOf(
		markdownCell("# Title\nSome text"),
		codeCell("x = 1\nprint(x)"),
		rawCell("raw line"),
	)
	want := "# %% [markdown]\n# # Title\n# Some text\n\n" +
		"# %%\nx = 1\nprint(x)\n\n" +
		"# %% [raw]\n# raw line"
	if got := Script(nb); got != want {
		t.Errorf("script =\n%q\nwant\n%q", got, want)
	}
}

func TestScript_Empty(t *testing.T) {
	if got := Script(notebook.New()); got != "" {
		t.Errorf("script = %q, want empty", got)
	}
}

func TestScript_LinesRecoverable(t *testing.T) {
	src := "first\n  indented\n\nlast"
	out := Script(nbOf(markdownCell(src)))
	lines := strings.SplitAfter(strings.TrimPrefix(out, markdownMarker), "\n")
	var back strings.Builder
	for _, l := range lines {
		back.WriteString(strings.TrimPrefix(l, commentPrefix))
	}
	if back.String() != src {
		t.Errorf("stripping prefixes gave %q, want %q", back.String(), src)
	}
}

func TestMarkdown_SingleCodeCell(t *testing.T) {
	got := Markdown(nbOf(codeCell("x = 1\n")))
	if want := "```python\nx = 1\n\n```"; got != want {
		t.Errorf("markdown = %q, want %q", got, want)
	}
}

func TestMarkdown_AllCellTypes(t *testing.T) {
	nb := nbOf(
		markdownCell("# Title"),
		codeCell("import os"),
		rawCell("plain"),
	)
	want := "# Title\n\n```python\nimport os\n```\n\n```\nplain\n```"
	if got := Markdown(nb); got != want {
		t.Errorf("markdown =\n%q\nwant\n%q", got, want)
	}
}

func TestMarkdown_ParsesAsFencedBlocks(t *testing.T) {
	nb := nbOf(
		markdownCell("# Analysis\n\nIntro paragraph."),
		codeCell("import math\nprint(math.pi)"),
		rawCell("%%raw payload"),
	)
	src := []byte(Markdown(nb))
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	type fence struct{ lang, body string }
	var fences []fence
	headings := 0
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings++
		case *ast.FencedCodeBlock:
			var body bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				body.Write(seg.Value(src))
			}
			fences = append(fences, fence{lang: string(node.Language(src)), body: body.String()})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if headings != 1 {
		t.Errorf("headings = %d, want 1", headings)
	}
	if len(fences) != 2 {
		t.Fatalf("fences = %d, want 2", len(fences))
	}
	if fences[0].lang != "python" || fences[0].body != "import math\nprint(math.pi)\n" {
		t.Errorf("code fence = %+v", fences[0])
	}
	if fences[1].lang != "" || fences[1].body != "%%raw payload\n" {
		t.Errorf("raw fence = %+v", fences[1])
	}
}

func TestConverters_DoNotMutate(t *testing.T) {
	nb := nbOf(codeCell("a\nb"), markdownCell("c"))
	before, err := nb.Save()
	if err != nil {
		t.Fatal(err)
	}
	_ = Script(nb)
	_ = Markdown(nb)
	after, err := nb.Save()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("converters modified the notebook")
	}
}

type bogusCell struct{ notebook.CellBase }

func (*bogusCell) Type() notebook.CellType { return "bogus" }

func TestRender_UnknownCell(t *testing.T) {
	nb := nbOf(&bogusCell{})
	for _, f := range []Format{FormatScript, FormatMarkdown} {
		if err := Render(&bytes.Buffer{}, nb, f); err == nil {
			t.Errorf("%s: expected error for unknown cell type", f)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, notebook.New(), Format("html")); err == nil {
		t.Error("expected error for unknown format")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestRender_WriteError(t *testing.T) {
	nb := nbOf(codeCell("x"))
	if err := Render(failingWriter{}, nb, FormatScript); err == nil {
		t.Error("expected write error")
	}
}

func TestFormat_Ext(t *testing.T) {
	if FormatScript.Ext() != "py" || FormatMarkdown.Ext() != "md" {
		t.Errorf("ext = %s/%s", FormatScript.Ext(), FormatMarkdown.Ext())
	}
}
