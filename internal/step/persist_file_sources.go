package step

import (
	"context"
	"fmt"
	"time"

	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/source"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
)

// PersistFileSourcesStep stores the merged source of every file, writing only
// the files whose content changed since the previous analysis.
type PersistFileSourcesStep struct {
	db      contract.DbClient
	tree    *component.TreeRootHolder
	report  contract.ReportReader
	metrics *telemetry.Metrics
	now     func() time.Time

	outcomes map[schema.Outcome]int
}

func NewPersistFileSourcesStep(db contract.DbClient, tree *component.TreeRootHolder,
	report contract.ReportReader, metrics *telemetry.Metrics) *PersistFileSourcesStep {
	return &PersistFileSourcesStep{
		db:       db,
		tree:     tree,
		report:   report,
		metrics:  metrics,
		now:      time.Now,
		outcomes: make(map[schema.Outcome]int),
	}
}

func (s *PersistFileSourcesStep) Description() string {
	return "Persist file sources"
}

// Execute uses one session for the whole tree. Files are committed one at a time
// so that no more than one file payload is held in memory.
func (s *PersistFileSourcesStep) Execute(ctx context.Context) (err error) {
	root, err := s.tree.Root()
	if err != nil {
		return err
	}
	session, err := s.db.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	v := &fileSourceVisitor{step: s, session: session}
	visitor := &component.TypeAwareVisitor{
		MaxDepth:     schema.FileType,
		Order:        component.PreOrder,
		VisitProject: v.visitProject,
		VisitFile:    v.visitFile,
	}
	return visitor.Visit(ctx, root)
}

// Counts returns the number of files per outcome.
func (s *PersistFileSourcesStep) Counts() map[string]int {
	counts := make(map[string]int, len(s.outcomes))
	for outcome, n := range s.outcomes {
		counts[string(outcome)] = n
	}
	return counts
}

type fileSourceVisitor struct {
	step    *PersistFileSourcesStep
	session contract.DbSession

	projectUUID string
	previous    map[string]schema.FileSourceRecord
}

func (v *fileSourceVisitor) visitProject(ctx context.Context, project *component.Component) error {
	v.projectUUID = project.UUID()
	previous, err := v.session.SelectHashesForProject(ctx, v.projectUUID, schema.SourceData)
	if err != nil {
		return fmt.Errorf("failed to load previous sources of %s: %w", project.Key(), err)
	}
	v.previous = previous
	return nil
}

func (v *fileSourceVisitor) visitFile(ctx context.Context, file *component.Component) error {
	if err := v.persistFile(ctx, file); err != nil {
		return fmt.Errorf("cannot persist sources of %s: %w", file.Key(), err)
	}
	return nil
}

func (v *fileSourceVisitor) persistFile(ctx context.Context, file *component.Component) (err error) {
	report := v.step.report
	meta, err := report.ReadComponent(file.Ref())
	if err != nil {
		return err
	}

	lines, err := report.ReadFileSource(file.Ref())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := lines.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	readers, err := source.OpenLineReaders(report, file.Ref())
	defer func() {
		if closeErr := readers.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err != nil {
		return err
	}

	data, err := source.NewComputeFileSourceData(lines, readers.Readers(), meta.Lines).Compute()
	if err != nil {
		return err
	}
	outcome, err := v.persistSource(ctx, data, file.UUID())
	if err != nil {
		return err
	}

	v.step.outcomes[outcome]++
	v.step.metrics.RecordFileSource(outcome, len(data.Lines))
	logging.FromContext(ctx).Debug("File source processed",
		logging.FieldFile, file.Key(), logging.FieldOutcome, outcome, logging.FieldLines, len(data.Lines))
	return nil
}

func (v *fileSourceVisitor) persistSource(ctx context.Context, data *source.FileSourceData, fileUUID string) (schema.Outcome, error) {
	encoded, err := data.Encode()
	if err != nil {
		return "", err
	}
	dataHash := source.Md5Hex(encoded)
	lineHashes := data.LineHashesString()
	now := v.step.now().UnixMilli()

	previous, ok := v.previous[fileUUID]
	if !ok {
		record := &schema.FileSourceRecord{
			ProjectUUID: v.projectUUID,
			FileUUID:    fileUUID,
			DataType:    schema.SourceData,
			BinaryData:  encoded,
			LineHashes:  lineHashes,
			DataHash:    dataHash,
			SrcHash:     data.SrcHash,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := v.session.InsertFileSource(ctx, record); err != nil {
			return "", err
		}
		if err := v.session.Commit(); err != nil {
			return "", err
		}
		return schema.InsertedOutcome, nil
	}

	binaryDataUpdated := dataHash != previous.DataHash
	srcHashUpdated := data.SrcHash != previous.SrcHash
	if !binaryDataUpdated && !srcHashUpdated {
		return schema.UnchangedOutcome, nil
	}

	record := previous
	record.BinaryData = encoded
	record.DataHash = dataHash
	record.SrcHash = data.SrcHash
	record.LineHashes = lineHashes
	// updated_at only moves with the payload, so that a src hash backfill
	// does not make the file look modified.
	if binaryDataUpdated {
		record.UpdatedAt = now
	}
	if err := v.session.UpdateFileSource(ctx, &record); err != nil {
		return "", err
	}
	if err := v.session.Commit(); err != nil {
		return "", err
	}
	return schema.UpdatedOutcome, nil
}
