package step

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jblievremont/sonarqube/internal/report"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/require"
)

const (
	projectKey  = "my:project"
	projectUUID = "uuid-project"
)

func ptr[T any](v T) *T { return &v }

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), schema.NoneBackend, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// sampleReport writes a project with one directory holding two files.
func sampleReport(t *testing.T) (string, *report.Writer) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "report")
	w, err := report.NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.WriteMetadata(schema.Metadata{AnalysisDate: 1, ProjectKey: projectKey, RootComponentRef: 1}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 1, Type: schema.ProjectType, Key: projectKey, UUID: projectUUID, ChildRefs: []int{2}}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 2, Type: schema.DirectoryType, Key: projectKey + ":src", UUID: "uuid-dir", ChildRefs: []int{3, 4}}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 3, Type: schema.FileType, Key: projectKey + ":src/Foo.java", UUID: "uuid-foo", Lines: 3}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 4, Type: schema.FileType, Key: projectKey + ":src/Bar.java", UUID: "uuid-bar", Lines: 1}))

	require.NoError(t, w.WriteSource(3, []string{"class Foo {", "  int a;", "}"}))
	require.NoError(t, w.WriteSource(4, []string{"class Bar {}"}))
	require.NoError(t, w.WriteCoverage(3, []schema.Coverage{{Line: 2, UtHits: ptr(true)}}))
	require.NoError(t, w.WriteSyntaxHighlighting(3, []schema.SyntaxHighlighting{
		{Range: schema.TextRange{StartLine: 1, EndLine: 1, StartOffset: 0, EndOffset: 5}, Type: schema.KeywordHighlighting},
	}))
	return dir, w
}

// buildTree runs the tree step over the report in dir.
func buildTree(t *testing.T, dir string) *Holders {
	t.Helper()
	holders := NewHolders()
	require.NoError(t, NewBuildComponentTreeStep(report.NewReader(dir), holders.Tree).Execute(context.Background()))
	return holders
}

func newPersistStep(db *store.Store, holders *Holders, dir string, now time.Time) *PersistFileSourcesStep {
	st := NewPersistFileSourcesStep(db, holders.Tree, report.NewReader(dir), nil)
	st.now = func() time.Time { return now }
	return st
}

func selectSource(t *testing.T, db *store.Store, fileUUID string) schema.FileSourceRecord {
	t.Helper()
	session, err := db.OpenSession(context.Background())
	require.NoError(t, err)
	defer session.Close()
	record, found, err := session.SelectFileSource(context.Background(), fileUUID, schema.SourceData)
	require.NoError(t, err)
	require.True(t, found, fileUUID)
	return record
}
