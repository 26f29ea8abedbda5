package source

import (
	"errors"
	"testing"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingIterator[T any] struct {
	err    error
	closed bool
}

func (it *failingIterator[T]) Next() bool { return false }

func (it *failingIterator[T]) Value() T {
	var zero T
	return zero
}

func (it *failingIterator[T]) Err() error { return it.err }

func (it *failingIterator[T]) Close() error {
	it.closed = true
	return nil
}

type failingReader struct{}

func (failingReader) Read(*Line) error { return errors.New("bad facet") }

func TestLineHash(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t  ", ""},
		{"whitespace ignored", "a b\tc", Md5Hex([]byte("abc"))},
		{"plain", "abc", Md5Hex([]byte("abc"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LineHash(tt.line))
		})
	}
	assert.Equal(t, EmptyHash, Md5Hex(nil))
}

func TestLineHashesJoinSplit(t *testing.T) {
	hashes := []string{"h1", "", "h3"}
	joined := JoinLineHashes(hashes)
	assert.Equal(t, "h1\n\nh3", joined)
	assert.Equal(t, hashes, SplitLineHashes(joined))
	assert.Nil(t, SplitLineHashes(""))
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		numberOfLines int
		expectedSrc   string
		expectedLines []string
	}{
		{"two lines", []string{"line1", "line2"}, 2, "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", []string{"line1"}, 2, "line1\n", []string{"line1", ""}},
		{"padded to declared count", []string{"a"}, 3, "a\n\n", []string{"a", "", ""}},
		{"more raw lines than declared", []string{"a", "b"}, 1, "a\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewComputeFileSourceData(contract.NewSliceIterator(tt.lines), nil, tt.numberOfLines).Compute()
			require.NoError(t, err)

			assert.Equal(t, Md5Hex([]byte(tt.expectedSrc)), data.SrcHash)
			require.Len(t, data.Lines, len(tt.expectedLines))
			require.Len(t, data.LineHashes, len(tt.expectedLines))
			for i, text := range tt.expectedLines {
				assert.Equal(t, i+1, data.Lines[i].Line)
				assert.Equal(t, text, data.Lines[i].Source)
				assert.Equal(t, LineHash(text), data.LineHashes[i])
			}
		})
	}
}

func TestCompute_EmptyFile(t *testing.T) {
	data, err := NewComputeFileSourceData(contract.NewSliceIterator[string](nil), nil, 0).Compute()
	require.NoError(t, err)
	assert.Empty(t, data.Lines)
	assert.Empty(t, data.LineHashes)
	assert.Equal(t, EmptyHash, data.SrcHash)
	assert.Equal(t, "", data.LineHashesString())
}

func TestCompute_LineWithoutFacetsStillHashed(t *testing.T) {
	hits := true
	coverage := contract.NewSliceIterator([]schema.Coverage{{Line: 2, UtHits: &hits}})
	readers := []LineReader{NewCoverageLineReader(coverage)}

	data, err := NewComputeFileSourceData(contract.NewSliceIterator([]string{"x := 1", "y := 2"}), readers, 2).Compute()
	require.NoError(t, err)
	assert.Nil(t, data.Lines[0].UtLineHits)
	assert.Equal(t, LineHash("x := 1"), data.LineHashes[0])
	require.NotNil(t, data.Lines[1].UtLineHits)
}

func TestCompute_UnconsumedFacetDataIgnored(t *testing.T) {
	hits := true
	coverage := contract.NewSliceIterator([]schema.Coverage{{Line: 1, UtHits: &hits}, {Line: 50, UtHits: &hits}})
	readers := []LineReader{NewCoverageLineReader(coverage)}

	data, err := NewComputeFileSourceData(contract.NewSliceIterator([]string{"a"}), readers, 1).Compute()
	require.NoError(t, err)
	assert.Len(t, data.Lines, 1)
}

func TestCompute_Errors(t *testing.T) {
	t.Run("source iterator error", func(t *testing.T) {
		lines := &failingIterator[string]{err: errors.New("disk gone")}
		_, err := NewComputeFileSourceData(lines, nil, 3).Compute()
		assert.ErrorContains(t, err, "disk gone")
	})
	t.Run("reader error names the line", func(t *testing.T) {
		_, err := NewComputeFileSourceData(contract.NewSliceIterator([]string{"a"}), []LineReader{failingReader{}}, 1).Compute()
		assert.ErrorContains(t, err, "failed to read line 1: bad facet")
	})
}

func TestEncodeDecode(t *testing.T) {
	author := "simon"
	data := &FileSourceData{Lines: []Line{
		{Line: 1, Source: "package main", ScmAuthor: &author},
		{Line: 2, Source: "", Duplications: []int{1, 2}},
	}}

	first, err := data.Encode()
	require.NoError(t, err)
	second, err := data.Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second, "encoding must be stable")

	lines, err := Decode(first)
	require.NoError(t, err)
	assert.Equal(t, data.Lines, lines)

	_, err = Decode([]byte("not lz4"))
	assert.Error(t, err)
}
