// Package metadata finds inline script metadata blocks inside notebook code
// cells:
//
//	# /// script
//	# requires-python = ">=3.11"
//	# ///
package metadata

import (
	"regexp"
	"strings"

	"github.com/starford/juv/internal/notebook"
)

var blockRe = regexp.MustCompile(`(?m)^# /// (?P<type>[a-zA-Z0-9-]+)$\s(?P<content>(^#(| .*)$\s)+)^# ///$`)

var (
	typeGroup    = blockRe.SubexpIndex("type")
	contentGroup = blockRe.SubexpIndex("content")
)

// Block is one matched metadata block. Text includes both marker lines;
// Start and End are byte offsets of Text within the searched source.
type Block struct {
	Type  string
	Text  string
	Start int
	End   int

	content string
}

// Match locates a block within a notebook.
type Match struct {
	Index int
	Cell  *notebook.CodeCell
	Block Block
}

// Extract returns the first block in source.
func Extract(source string) (Block, bool) {
	loc := blockRe.FindStringSubmatchIndex(source)
	if loc == nil {
		return Block{}, false
	}
	return Block{
		Type:    source[loc[2*typeGroup]:loc[2*typeGroup+1]],
		Text:    source[loc[0]:loc[1]],
		Start:   loc[0],
		End:     loc[1],
		content: source[loc[2*contentGroup]:loc[2*contentGroup+1]],
	}, true
}

// Find scans code cells in order and returns the first block found.
func Find(nb *notebook.Notebook) (Match, bool) {
	for i, c := range nb.Cells {
		code, ok := c.(*notebook.CodeCell)
		if !ok {
			continue
		}
		if b, ok := Extract(code.Source.String()); ok {
			return Match{Index: i, Cell: code, Block: b}, true
		}
	}
	return Match{}, false
}

// Splice replaces block's byte range in source with replacement.
func Splice(source string, block Block, replacement string) string {
	return source[:block.Start] + replacement + source[block.End:]
}

// Content returns the block body with the comment prefix removed from each
// line.
func (b Block) Content() string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(b.content, "\n") {
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimPrefix(line, " ")
		sb.WriteString(line)
	}
	return sb.String()
}
