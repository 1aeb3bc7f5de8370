// Package markdown pulls patch envelopes out of fenced code blocks in a
// markdown reply.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sokinpui/apatch/internal/patch"
)

// CodeBlock is a fenced code block from markdown content.
type CodeBlock struct {
	// Hint is the paragraph immediately preceding the block.
	Hint string
	// Lang is the info string of the fence (e.g. "diff", "patch").
	Lang    string
	Content string
}

// ExtractCodeBlocks walks the markdown AST and returns every fenced code
// block with its preceding paragraph as a hint.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fenced.Info != nil {
			block.Lang = strings.TrimSpace(string(fenced.Info.Text(source)))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		if prev := fenced.PreviousSibling(); prev != nil {
			if p, ok := prev.(*ast.Paragraph); ok {
				block.Hint = strings.TrimSpace(string(p.Text(source)))
			}
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ExtractPatches returns the text of every code block holding a patch
// envelope, joined in document order. It returns an empty string when no
// block qualifies.
func ExtractPatches(source string) (string, error) {
	blocks, err := ExtractCodeBlocks([]byte(source))
	if err != nil {
		return "", err
	}

	var envelopes []string
	for _, block := range blocks {
		envelopes = append(envelopes, patch.Split(block.Content)...)
	}
	return strings.Join(envelopes, "\n"), nil
}
