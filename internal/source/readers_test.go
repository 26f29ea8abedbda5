package source

import (
	"testing"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool    { return &b }
func i32(v int32) *int32      { return &v }
func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func readAll(t *testing.T, r LineReader, sources ...string) []Line {
	t.Helper()
	lines := make([]Line, len(sources))
	for i, s := range sources {
		lines[i] = Line{Line: i + 1, Source: s}
		require.NoError(t, r.Read(&lines[i]))
	}
	return lines
}

func TestCoverageLineReader(t *testing.T) {
	records := []schema.Coverage{
		{Line: 1, UtHits: boolPtr(true), ItHits: boolPtr(false), Conditions: i32(4), UtCoveredConditions: i32(2), ItCoveredConditions: i32(1), OverallCoveredConditions: i32(3)},
		{Line: 3, ItHits: boolPtr(true)},
	}
	r := NewCoverageLineReader(contract.NewSliceIterator(records))
	lines := readAll(t, r, "a", "b", "c")

	first := lines[0]
	assert.Equal(t, i32(1), first.UtLineHits)
	assert.Equal(t, i32(0), first.ItLineHits)
	assert.Equal(t, i32(1), first.OverallLineHits)
	assert.Equal(t, i32(4), first.UtConditions)
	assert.Equal(t, i32(2), first.UtCoveredConditions)
	assert.Equal(t, i32(4), first.ItConditions)
	assert.Equal(t, i32(1), first.ItCoveredConditions)
	assert.Equal(t, i32(4), first.OverallConditions)
	assert.Equal(t, i32(3), first.OverallCoveredConditions)

	assert.Equal(t, Line{Line: 2, Source: "b"}, lines[1], "no record for line 2")

	third := lines[2]
	assert.Nil(t, third.UtLineHits)
	assert.Equal(t, i32(1), third.ItLineHits)
	assert.Equal(t, i32(1), third.OverallLineHits)
	assert.Nil(t, third.OverallConditions)
}

func TestScmLineReader(t *testing.T) {
	changesets := &schema.Changesets{
		Changesets: []schema.Changeset{
			{Revision: strPtr("rev-1"), Author: strPtr("john"), Date: int64Ptr(123456789)},
			{Revision: strPtr("rev-2")},
		},
		ChangesetIndexByLine: []int{0, 1, 0},
	}
	lines := readAll(t, NewScmLineReader(changesets), "a", "b", "c", "d")

	assert.Equal(t, "rev-1", *lines[0].ScmRevision)
	assert.Equal(t, "john", *lines[0].ScmAuthor)
	assert.Equal(t, int64(123456789), *lines[0].ScmDate)
	assert.Equal(t, "rev-2", *lines[1].ScmRevision)
	assert.Nil(t, lines[1].ScmAuthor)
	assert.Nil(t, lines[1].ScmDate)
	assert.Equal(t, "rev-1", *lines[2].ScmRevision)
	assert.Nil(t, lines[3].ScmRevision, "lines beyond the index get nothing")
}

func TestScmLineReader_BadIndex(t *testing.T) {
	r := NewScmLineReader(&schema.Changesets{ChangesetIndexByLine: []int{3}})
	err := r.Read(&Line{Line: 1})
	assert.ErrorContains(t, err, "changeset index 3 out of range")
}

func TestHighlightingLineReader(t *testing.T) {
	records := []schema.SyntaxHighlighting{
		{Range: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 0, EndOffset: 4}, Type: schema.AnnotationHighlighting},
		{Range: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 5, EndOffset: 10}, Type: schema.KeywordHighlighting},
		{Range: schema.TextRange{StartLine: 2, EndLine: 4, StartOffset: 3, EndOffset: 2}, Type: schema.CommentHighlighting},
		{Range: schema.TextRange{StartLine: 4, EndLine: 4, StartOffset: 4, EndOffset: 8}, Type: schema.StringHighlighting},
	}
	r := NewHighlightingLineReader(contract.NewSliceIterator(records))
	lines := readAll(t, r, "@Foo public", "int a; /*", "comment", "*/ \"abcd\"", "end")

	assert.Equal(t, "0,4,a;5,10,k", *lines[0].Highlighting)
	assert.Equal(t, "3,9,cd", *lines[1].Highlighting)
	assert.Equal(t, "0,7,cd", *lines[2].Highlighting)
	assert.Equal(t, "0,2,cd;4,8,s", *lines[3].Highlighting)
	assert.Nil(t, lines[4].Highlighting)
}

func TestHighlightingLineReader_OutOfOrderRangeDropped(t *testing.T) {
	records := []schema.SyntaxHighlighting{
		{Range: schema.TextRange{StartLine: 3, EndLine: 3, StartOffset: 0, EndOffset: 1}, Type: schema.KeywordHighlighting},
		{Range: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 0, EndOffset: 2}, Type: schema.CommentHighlighting},
	}
	r := NewHighlightingLineReader(contract.NewSliceIterator(records))
	lines := readAll(t, r, "aa", "bb", "cccccc")

	assert.Nil(t, lines[0].Highlighting)
	assert.Nil(t, lines[1].Highlighting)
	assert.Equal(t, "0,1,k", *lines[2].Highlighting, "a range ended before the current line adds nothing")
}

func TestHighlightingLineReader_MultibyteLine(t *testing.T) {
	records := []schema.SyntaxHighlighting{
		{Range: schema.TextRange{StartLine: 1, EndLine: 2, StartOffset: 0, EndOffset: 1}, Type: schema.CommentHighlighting},
	}
	r := NewHighlightingLineReader(contract.NewSliceIterator(records))
	lines := readAll(t, r, "é€x", "yz")

	assert.Equal(t, "0,3,cd", *lines[0].Highlighting, "line end counts characters")
	assert.Equal(t, "0,1,cd", *lines[1].Highlighting)
}

func TestHighlightingLineReader_Errors(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		records := []schema.SyntaxHighlighting{{Range: schema.TextRange{StartLine: 1, EndLine: 1, EndOffset: 2}, Type: "BOLD"}}
		r := NewHighlightingLineReader(contract.NewSliceIterator(records))
		err := r.Read(&Line{Line: 1, Source: "ab"})
		assert.ErrorContains(t, err, `unknown highlighting type "BOLD"`)
	})
	t.Run("inverted offsets", func(t *testing.T) {
		records := []schema.SyntaxHighlighting{{Range: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 4, EndOffset: 2}, Type: schema.KeywordHighlighting}}
		r := NewHighlightingLineReader(contract.NewSliceIterator(records))
		err := r.Read(&Line{Line: 1, Source: "abcdef"})
		assert.ErrorContains(t, err, "end offset 2 cannot be defined before start offset 4")
	})
}

func TestCSSClass(t *testing.T) {
	tests := map[schema.HighlightingType]string{
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
	for typ, class := range tests {
		got, err := CSSClass(typ)
		require.NoError(t, err)
		assert.Equal(t, class, got, typ)
	}
}

func TestDuplicationLineReader(t *testing.T) {
	other := 2
	duplications := []schema.Duplication{
		{
			OriginPosition: schema.TextRange{StartLine: 3, EndLine: 4},
			Duplicates: []schema.Duplicate{
				{Range: schema.TextRange{StartLine: 1, EndLine: 2}},
				{OtherFileRef: &other, Range: schema.TextRange{StartLine: 10, EndLine: 20}},
			},
		},
		{
			OriginPosition: schema.TextRange{StartLine: 1, EndLine: 5},
		},
	}
	lines := readAll(t, NewDuplicationLineReader(duplications), "1", "2", "3", "4", "5", "6")

	// blocks sorted: (1,2)=1, (1,5)=2, (3,4)=3
	assert.Equal(t, []int{1, 2}, lines[0].Duplications)
	assert.Equal(t, []int{1, 2}, lines[1].Duplications)
	assert.Equal(t, []int{2, 3}, lines[2].Duplications)
	assert.Equal(t, []int{2, 3}, lines[3].Duplications)
	assert.Equal(t, []int{2}, lines[4].Duplications)
	assert.Nil(t, lines[5].Duplications)
}

func TestSymbolsLineReader(t *testing.T) {
	symbols := []schema.Symbol{
		{
			Declaration: schema.TextRange{StartLine: 3, EndLine: 3, StartOffset: 2, EndOffset: 5},
			References:  []schema.TextRange{{StartLine: 4, EndLine: 4, StartOffset: 0, EndOffset: 3}},
		},
		{
			Declaration: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 4, EndOffset: 7},
			References: []schema.TextRange{
				{StartLine: 1, EndLine: 1, StartOffset: 10, EndOffset: 13},
				{StartLine: 4, EndLine: 5, StartOffset: 5, EndOffset: 2},
			},
		},
	}
	lines := readAll(t, NewSymbolsLineReader(symbols), "var foo = foo", "", "  bar", "bar  foo", "oo", "x")

	assert.Equal(t, "4,7,1;10,13,1", *lines[0].Symbols)
	assert.Nil(t, lines[1].Symbols)
	assert.Equal(t, "2,5,2", *lines[2].Symbols)
	assert.Equal(t, "5,8,1;0,3,2", *lines[3].Symbols)
	assert.Equal(t, "0,2,1", *lines[4].Symbols)
	assert.Nil(t, lines[5].Symbols)
}

func TestSymbolsLineReader_MultibyteLine(t *testing.T) {
	symbols := []schema.Symbol{
		{Declaration: schema.TextRange{StartLine: 1, EndLine: 2, StartOffset: 1, EndOffset: 1}},
	}
	lines := readAll(t, NewSymbolsLineReader(symbols), "aé", "bc")

	assert.Equal(t, "1,2,1", *lines[0].Symbols, "line end counts characters")
	assert.Equal(t, "0,1,1", *lines[1].Symbols)
}

type stubReport struct {
	contract.ReportReader
	coverage     *closeTracker[schema.Coverage]
	highlighting *closeTracker[schema.SyntaxHighlighting]
	changesets   *schema.Changesets
	symbols      []schema.Symbol
	duplications []schema.Duplication
}

type closeTracker[T any] struct {
	contract.CloseableIterator[T]
	closed int
}

func (c *closeTracker[T]) Close() error {
	c.closed++
	return c.CloseableIterator.Close()
}

func (s *stubReport) ReadComponentCoverage(int) (contract.CloseableIterator[schema.Coverage], error) {
	if s.coverage == nil {
		return nil, nil
	}
	return s.coverage, nil
}

func (s *stubReport) ReadChangesets(int) (*schema.Changesets, error) { return s.changesets, nil }

func (s *stubReport) ReadComponentSyntaxHighlighting(int) (contract.CloseableIterator[schema.SyntaxHighlighting], error) {
	if s.highlighting == nil {
		return nil, nil
	}
	return s.highlighting, nil
}

func (s *stubReport) ReadComponentSymbols(int) ([]schema.Symbol, error) { return s.symbols, nil }

func (s *stubReport) ReadComponentDuplications(int) ([]schema.Duplication, error) {
	return s.duplications, nil
}

func TestOpenLineReaders(t *testing.T) {
	t.Run("no facets", func(t *testing.T) {
		lr, err := OpenLineReaders(&stubReport{}, 1)
		require.NoError(t, err)
		assert.Empty(t, lr.Readers())
		assert.NoError(t, lr.Close())
	})

	t.Run("all facets and streams closed", func(t *testing.T) {
		report := &stubReport{
			coverage:     &closeTracker[schema.Coverage]{CloseableIterator: contract.NewSliceIterator[schema.Coverage](nil)},
			highlighting: &closeTracker[schema.SyntaxHighlighting]{CloseableIterator: contract.NewSliceIterator[schema.SyntaxHighlighting](nil)},
			changesets:   &schema.Changesets{},
			symbols:      []schema.Symbol{{}},
			duplications: []schema.Duplication{{}},
		}
		lr, err := OpenLineReaders(report, 1)
		require.NoError(t, err)
		require.Len(t, lr.Readers(), 5)
		assert.IsType(t, &CoverageLineReader{}, lr.Readers()[0])
		assert.IsType(t, &ScmLineReader{}, lr.Readers()[1])
		assert.IsType(t, &HighlightingLineReader{}, lr.Readers()[2])
		assert.IsType(t, &DuplicationLineReader{}, lr.Readers()[3])
		assert.IsType(t, &SymbolsLineReader{}, lr.Readers()[4])

		require.NoError(t, lr.Close())
		require.NoError(t, lr.Close())
		assert.Equal(t, 1, report.coverage.closed)
		assert.Equal(t, 1, report.highlighting.closed)
	})
}
