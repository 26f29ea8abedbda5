package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

var cssClasses = map[schema.HighlightingType]string{
	schema.AnnotationHighlighting:          "a",
	schema.ConstantHighlighting:            "c",
	schema.CommentHighlighting:             "cd",
	schema.CppDocHighlighting:              "cppd",
	schema.StructuredCommentHighlighting:   "j",
	schema.KeywordHighlighting:             "k",
	schema.StringHighlighting:              "s",
	schema.KeywordLightHighlighting:        "h",
	schema.PreprocessDirectiveHighlighting: "p",
}

// CSSClass returns the class rendered for a highlighting type.
func CSSClass(t schema.HighlightingType) (string, error) {
	class, ok := cssClasses[t]
	if !ok {
		return "", fmt.Errorf("unknown highlighting type %q", t)
	}
	return class, nil
}

// HighlightingLineReader reads a stream of highlighting ranges ordered by start line.
// Ranges spanning several lines stay open until their end line is read.
type HighlightingLineReader struct {
	iter    contract.CloseableIterator[schema.SyntaxHighlighting]
	pending *schema.SyntaxHighlighting
	open    []schema.SyntaxHighlighting
}

// NewHighlightingLineReader wraps a highlighting stream. The caller keeps ownership of iter.
func NewHighlightingLineReader(iter contract.CloseableIterator[schema.SyntaxHighlighting]) *HighlightingLineReader {
	return &HighlightingLineReader{iter: iter}
}

func (r *HighlightingLineReader) Read(line *Line) error {
	if err := r.openStartingAt(line.Line); err != nil {
		return err
	}

	var sb strings.Builder
	lineLength := utf8.RuneCountInString(line.Source)
	remaining := r.open[:0]
	for _, h := range r.open {
		offsets, err := rangeOffsets(h.Range, line.Line, lineLength)
		if err != nil {
			return err
		}
		if offsets != "" {
			class, err := CSSClass(h.Type)
			if err != nil {
				return err
			}
			appendItem(&sb, offsets, class)
		}
		if h.Range.EndLine > line.Line {
			remaining = append(remaining, h)
		}
	}
	r.open = remaining

	if sb.Len() > 0 {
		line.Highlighting = stringPtr(sb.String())
	}
	return nil
}

// openStartingAt moves every range starting on or before lineNumber to the open list.
// Ranges already ended before lineNumber arrived out of order and are dropped.
func (r *HighlightingLineReader) openStartingAt(lineNumber int) error {
	for {
		if r.pending == nil {
			if !r.iter.Next() {
				return r.iter.Err()
			}
			h := r.iter.Value()
			r.pending = &h
		}
		if r.pending.Range.StartLine > lineNumber {
			return nil
		}
		if r.pending.Range.EndLine >= lineNumber {
			r.open = append(r.open, *r.pending)
		}
		r.pending = nil
	}
}
