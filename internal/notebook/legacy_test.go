package notebook

import (
	"encoding/json"
	"testing"
)

const sampleV3 = `{
 "metadata": {"name": "old", "signature": "sha256:abc", "kernelspec": {"name": "python2", "display_name": "Python 2"}},
 "nbformat": 3,
 "nbformat_minor": 0,
 "worksheets": [
  {
   "cells": [
    {"cell_type": "heading", "level": 2, "metadata": {}, "source": ["Results"]},
    {
     "cell_type": "code",
     "collapsed": false,
     "input": ["x = 1\n", "x"],
     "language": "python",
     "metadata": {},
     "outputs": [
      {"output_type": "pyout", "prompt_number": 4, "text": ["1"], "metadata": {}},
      {"output_type": "stream", "stream": "stderr", "text": ["warn\n"]},
      {"output_type": "pyerr", "ename": "ValueError", "evalue": "bad", "traceback": []},
      {"output_type": "display_data", "png": "iVBOR", "metadata": {}}
     ],
     "prompt_number": 4
    },
    {"cell_type": "markdown", "metadata": {}, "source": "plain *text*"},
    {"cell_type": "raw", "metadata": {}, "source": ["raw"]}
   ],
   "metadata": {}
  }
 ]
}`

func decodeOutput(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return m
}

func TestLoad_UpgradesV3(t *testing.T) {
	nb := mustLoad(t, sampleV3)

	if nb.Format != 4 || nb.FormatMinor != FormatMinor {
		t.Errorf("version = %d.%d, want 4.%d", nb.Format, nb.FormatMinor, FormatMinor)
	}
	if _, ok := nb.Metadata.Additional["name"]; ok {
		t.Error("v3 name should be dropped")
	}
	if _, ok := nb.Metadata.Additional["signature"]; ok {
		t.Error("v3 signature should be dropped")
	}
	if string(nb.Metadata.Additional["orig_nbformat"]) != "3" {
		t.Errorf("orig_nbformat = %s, want 3", nb.Metadata.Additional["orig_nbformat"])
	}
	if nb.Metadata.Kernelspec == nil || nb.Metadata.Kernelspec.Name != "python2" {
		t.Errorf("kernelspec = %+v", nb.Metadata.Kernelspec)
	}
	if len(nb.Cells) != 4 {
		t.Fatalf("len(cells) = %d, want 4", len(nb.Cells))
	}

	heading, ok := nb.Cells[0].(*MarkdownCell)
	if !ok {
		t.Fatalf("heading became %T, want *MarkdownCell", nb.Cells[0])
	}
	if got := heading.Source.String(); got != "## Results" {
		t.Errorf("heading source = %q", got)
	}

	code, ok := nb.Cells[1].(*CodeCell)
	if !ok {
		t.Fatalf("cell 1 is %T", nb.Cells[1])
	}
	if got := code.Source.String(); got != "x = 1\nx" {
		t.Errorf("code source = %q", got)
	}
	if code.ExecutionCount == nil || *code.ExecutionCount != 4 {
		t.Errorf("execution_count = %v, want 4", code.ExecutionCount)
	}
	if _, ok := code.Metadata.Additional["collapsed"]; !ok {
		t.Error("collapsed should move into metadata")
	}
	if _, ok := code.Extra["language"]; ok {
		t.Error("language should be dropped")
	}
	if len(code.Outputs) != 4 {
		t.Fatalf("len(outputs) = %d, want 4", len(code.Outputs))
	}

	result := decodeOutput(t, code.Outputs[0])
	if result["output_type"] != "execute_result" || result["execution_count"] != float64(4) {
		t.Errorf("pyout upgraded to %v", result)
	}
	if data, _ := result["data"].(map[string]any); data["text/plain"] == nil {
		t.Errorf("text not moved to data: %v", result)
	}
	stream := decodeOutput(t, code.Outputs[1])
	if stream["name"] != "stderr" || stream["stream"] != nil {
		t.Errorf("stream upgraded to %v", stream)
	}
	if errOut := decodeOutput(t, code.Outputs[2]); errOut["output_type"] != "error" {
		t.Errorf("pyerr upgraded to %v", errOut)
	}
	display := decodeOutput(t, code.Outputs[3])
	if data, _ := display["data"].(map[string]any); data["image/png"] != "iVBOR" {
		t.Errorf("png not moved to data: %v", display)
	}

	if _, ok := nb.Cells[3].(*RawCell); !ok {
		t.Errorf("cell 3 is %T, want *RawCell", nb.Cells[3])
	}
	for i, c := range nb.Cells {
		if c.Base().ID == "" {
			t.Errorf("cell %d has no id", i)
		}
	}
}

func TestLoad_V3UnknownCell(t *testing.T) {
	doc := `{"nbformat": 3, "worksheets": [{"cells": [{"cell_type": "widget"}]}]}`
	if _, err := Load([]byte(doc)); err == nil {
		t.Fatal("expected error for unknown v3 cell type")
	}
}
