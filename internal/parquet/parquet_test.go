package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jblievremont/sonarqube/internal/source"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(FileSource))
	require.NotNil(t, s)

	expectedColumns := []string{
		"project_uuid", "file_uuid", "data_type", "line_count", "binary_bytes",
		"data_hash", "src_hash", "created_at", "updated_at",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertFileSourceRecord(t *testing.T) {
	record := schema.FileSourceRecord{
		ProjectUUID: "p",
		FileUUID:    "f",
		DataType:    schema.SourceData,
		BinaryData:  []byte{1, 2, 3},
		LineHashes:  "a\n\nc",
		DataHash:    "dh",
		SrcHash:     "sh",
		CreatedAt:   1_500_000_000_000,
		UpdatedAt:   1_600_000_000_000,
	}
	row, err := ConvertFileSourceRecord(record, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(3), row.LineCount)
	assert.Equal(t, int64(3), row.BinaryBytes)
	assert.Equal(t, "SOURCE", row.DataType)
	assert.Equal(t, int64(1_600_000_000_000), row.UpdatedAt.UnixMilli())
}

func TestWriteFileSourcesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "file_sources.parquet")
	row, err := ConvertFileSourceRecord(schema.FileSourceRecord{ProjectUUID: "p", FileUUID: "f1", DataType: schema.SourceData, LineHashes: "x"}, 1)
	require.NoError(t, err)
	data := []FileSource{row}

	require.NoError(t, WriteFileSourcesParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[FileSource](file)
	defer reader.Close()

	readData := make([]FileSource, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "f1", readData[0].FileUUID)
	assert.Equal(t, int32(1), readData[0].LineCount)
}

func TestWriteFileLinesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "file_lines.parquet")
	author := "jane"
	hits := int32(1)
	lines, err := ConvertLines("f1", []source.Line{
		{Line: 1, Source: "package a", ScmAuthor: &author, UtLineHits: &hits, Duplications: []int{1, 2}},
		{Line: 2, Source: ""},
	})
	require.NoError(t, err)
	require.NoError(t, WriteFileLinesParquet(lines, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[FileLine](file)
	defer reader.Close()

	readData := make([]FileLine, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)
	assert.Equal(t, "package a", readData[0].Source)
	require.NotNil(t, readData[0].ScmAuthor)
	assert.Equal(t, "jane", *readData[0].ScmAuthor)
	assert.Equal(t, []int32{1, 2}, readData[0].Duplications)
	assert.Nil(t, readData[1].ScmAuthor)
	assert.Nil(t, readData[1].UtLineHits)
}

func TestWriteFileSourcesParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteFileSourcesParquet([]FileSource{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteFileSourcesParquet_BadPath(t *testing.T) {
	err := WriteFileSourcesParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}
