package source

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jblievremont/sonarqube/schema"
)

type numberedSymbol struct {
	id      int
	symbol  schema.Symbol
	lastEnd int
}

// SymbolsLineReader annotates lines with symbol declarations and references.
// Symbols are numbered from 1 by declaration position.
type SymbolsLineReader struct {
	symbols []numberedSymbol
}

func NewSymbolsLineReader(symbols []schema.Symbol) *SymbolsLineReader {
	sorted := make([]schema.Symbol, len(symbols))
	copy(sorted, symbols)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Declaration, sorted[j].Declaration
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartOffset < b.StartOffset
	})

	numbered := make([]numberedSymbol, len(sorted))
	for i, s := range sorted {
		lastEnd := s.Declaration.EndLine
		for _, ref := range s.References {
			lastEnd = max(lastEnd, ref.EndLine)
		}
		numbered[i] = numberedSymbol{id: i + 1, symbol: s, lastEnd: lastEnd}
	}
	return &SymbolsLineReader{symbols: numbered}
}

func (r *SymbolsLineReader) Read(line *Line) error {
	var sb strings.Builder
	lineLength := utf8.RuneCountInString(line.Source)
	remaining := r.symbols[:0]
	for _, ns := range r.symbols {
		if ns.lastEnd < line.Line {
			continue
		}
		remaining = append(remaining, ns)

		id := strconv.Itoa(ns.id)
		ranges := append([]schema.TextRange{ns.symbol.Declaration}, ns.symbol.References...)
		for _, rg := range ranges {
			if !rangeTouches(rg, line.Line) {
				continue
			}
			offsets, err := rangeOffsets(rg, line.Line, lineLength)
			if err != nil {
				return err
			}
			if offsets != "" {
				appendItem(&sb, offsets, id)
			}
		}
	}
	r.symbols = remaining

	if sb.Len() > 0 {
		line.Symbols = stringPtr(sb.String())
	}
	return nil
}
