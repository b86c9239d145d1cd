package notebook

import (
	"regexp"
	"testing"
)

func TestShortUUID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{8}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := ShortUUID()
		if !re.MatchString(id) {
			t.Fatalf("id %q is not 8 hex chars", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) < 99 {
		t.Errorf("too many collisions: %d unique of 100", len(seen))
	}
}

func TestAppendCode(t *testing.T) {
	nb := New()
	hidden := nb.AppendCode("\n# /// script\n# ///\n\n", true)
	plain := nb.AppendCode("", false)

	if nb.Format != FormatMajor || nb.FormatMinor != FormatMinor {
		t.Errorf("version = %d.%d", nb.Format, nb.FormatMinor)
	}
	if len(nb.Cells) != 2 {
		t.Fatalf("len(cells) = %d, want 2", len(nb.Cells))
	}
	if got := hidden.Source.String(); got != "# /// script\n# ///" {
		t.Errorf("hidden source = %q", got)
	}
	if !hidden.Metadata.SourceHidden() {
		t.Error("first cell should be hidden")
	}
	if plain.Metadata.Jupyter != nil {
		t.Error("plain cell should carry no jupyter metadata")
	}
	if len(plain.Source) != 0 {
		t.Errorf("empty cell source = %q", plain.Source)
	}
	if hidden.ID == "" || hidden.ID == plain.ID {
		t.Errorf("ids should be unique and non-empty: %q %q", hidden.ID, plain.ID)
	}
	if !nb.IsCleared() {
		t.Error("new cells have no outputs")
	}
}

func TestNewID_Override(t *testing.T) {
	orig := NewID
	t.Cleanup(func() { NewID = orig })
	NewID = func() string { return "fixed" }

	nb := New()
	if id := nb.AppendCode("x", false).ID; id != "fixed" {
		t.Errorf("id = %q, want fixed", id)
	}
}
