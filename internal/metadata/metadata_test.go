package metadata

import (
	"testing"

	"github.com/starford/juv/internal/notebook"
)

const scriptBlock = "# /// script\n# requires-python = \">=3.11\"\n# ///"

func TestExtract_Basic(t *testing.T) {
	src := scriptBlock + "\n"
	b, ok := Extract(src)
	if !ok {
		t.Fatal("expected a match")
	}
	if b.Text != scriptBlock {
		t.Errorf("text = %q, want %q", b.Text, scriptBlock)
	}
	if b.Type != "script" {
		t.Errorf("type = %q, want script", b.Type)
	}
}

func TestExtract_SurroundingCode(t *testing.T) {
	src := "import os\n" + scriptBlock + "\nprint(os.name)\n"
	b, ok := Extract(src)
	if !ok {
		t.Fatal("expected a match")
	}
	if b.Text != scriptBlock {
		t.Errorf("text = %q", b.Text)
	}
	if src[b.Start:b.End] != b.Text {
		t.Errorf("offsets [%d:%d] do not cover the block", b.Start, b.End)
	}
}

func TestExtract_BareCommentLines(t *testing.T) {
	src := "# /// script\n#\n# dependencies = [\n#   \"numpy\",\n# ]\n# ///"
	b, ok := Extract(src)
	if !ok {
		t.Fatal("expected a match")
	}
	if b.Text != src {
		t.Errorf("text = %q", b.Text)
	}
}

func TestExtract_NoMatch(t *testing.T) {
	cases := map[string]string{
		"no closing":        "# /// script\n# requires-python = \">=3.11\"\n",
		"no opening":        "# requires-python = \">=3.11\"\n# ///",
		"not at line start": "x = 1  # /// script\n# a = 1\n# ///",
		"no content":        "# /// script\n# ///",
		"bad content line":  "# /// script\n#a = 1\n# ///",
		"bad type token":    "# /// my_type\n# a = 1\n# ///",
		"empty":             "",
	}
	for name, src := range cases {
		if b, ok := Extract(src); ok {
			t.Errorf("%s: unexpected match %q", name, b.Text)
		}
	}
}

func TestExtract_FirstBlockWins(t *testing.T) {
	src := "# /// script\n# a = 1\n# ///\n\n# /// other\n# b = 2\n# ///"
	b, ok := Extract(src)
	if !ok {
		t.Fatal("expected a match")
	}
	if b.Type != "script" {
		t.Errorf("type = %q, want script", b.Type)
	}
}

func TestFind(t *testing.T) {
	nb := notebook.New()
	nb.Cells = append(nb.Cells, &notebook.MarkdownCell{CellBase: notebook.CellBase{
		Source: notebook.SplitLines(scriptBlock),
	}})
	nb.AppendCode("print(1)", false)
	nb.AppendCode(scriptBlock, true)
	nb.AppendCode("# /// script\n# b = 2\n# ///", false)

	m, ok := Find(nb)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 2 {
		t.Errorf("index = %d, want 2 (markdown cells are skipped)", m.Index)
	}
	if m.Cell != nb.Cells[2] {
		t.Error("match should point at the matching cell")
	}
	if m.Block.Text != scriptBlock {
		t.Errorf("text = %q", m.Block.Text)
	}
}

func TestFind_None(t *testing.T) {
	nb := notebook.New()
	nb.AppendCode("print(1)", false)
	if _, ok := Find(nb); ok {
		t.Error("unexpected match")
	}
}

func TestSplice(t *testing.T) {
	src := "import os\n" + scriptBlock + "\nprint(os.name)\n"
	b, _ := Extract(src)
	repl := "# /// script\n# dependencies = [\"rich\"]\n# ///"
	got := Splice(src, b, repl)
	want := "import os\n" + repl + "\nprint(os.name)\n"
	if got != want {
		t.Errorf("splice = %q, want %q", got, want)
	}
}

func TestScript(t *testing.T) {
	src := "# /// script\n# requires-python = \">=3.12\"\n# dependencies = [\n#   \"pandas\",\n#   \"rich>=13\",\n# ]\n#\n# [tool.uv]\n# exclude-newer = \"2024-01-01T00:00:00Z\"\n# ///"
	b, ok := Extract(src)
	if !ok {
		t.Fatal("expected a match")
	}
	s, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	if s.RequiresPython != ">=3.12" {
		t.Errorf("requires-python = %q", s.RequiresPython)
	}
	if len(s.Dependencies) != 2 || s.Dependencies[0] != "pandas" || s.Dependencies[1] != "rich>=13" {
		t.Errorf("dependencies = %v", s.Dependencies)
	}
	if _, ok := s.Tool["uv"]; !ok {
		t.Errorf("tool = %v, want uv table", s.Tool)
	}
}

func TestScript_WrongType(t *testing.T) {
	b, _ := Extract("# /// pyproject\n# a = 1\n# ///")
	if _, err := b.Script(); err == nil {
		t.Error("expected error for non-script block")
	}
}
