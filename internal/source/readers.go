package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/jblievremont/sonarqube/internal/contract"
)

// LineReaders is the set of facet readers built for one file, along with the
// report streams they read from.
type LineReaders struct {
	readers []LineReader
	closers []io.Closer
}

// OpenLineReaders builds a reader for each facet the report holds for ref.
// The returned bundle must be closed, also when an error is returned later on.
func OpenLineReaders(report contract.ReportReader, ref int) (*LineReaders, error) {
	lr := &LineReaders{}

	coverage, err := report.ReadComponentCoverage(ref)
	if err != nil {
		return lr, fmt.Errorf("failed to read coverage: %w", err)
	}
	if coverage != nil {
		lr.closers = append(lr.closers, coverage)
		lr.readers = append(lr.readers, NewCoverageLineReader(coverage))
	}

	changesets, err := report.ReadChangesets(ref)
	if err != nil {
		return lr, fmt.Errorf("failed to read changesets: %w", err)
	}
	if changesets != nil {
		lr.readers = append(lr.readers, NewScmLineReader(changesets))
	}

	highlighting, err := report.ReadComponentSyntaxHighlighting(ref)
	if err != nil {
		return lr, fmt.Errorf("failed to read syntax highlighting: %w", err)
	}
	if highlighting != nil {
		lr.closers = append(lr.closers, highlighting)
		lr.readers = append(lr.readers, NewHighlightingLineReader(highlighting))
	}

	duplications, err := report.ReadComponentDuplications(ref)
	if err != nil {
		return lr, fmt.Errorf("failed to read duplications: %w", err)
	}
	if len(duplications) > 0 {
		lr.readers = append(lr.readers, NewDuplicationLineReader(duplications))
	}

	symbols, err := report.ReadComponentSymbols(ref)
	if err != nil {
		return lr, fmt.Errorf("failed to read symbols: %w", err)
	}
	if len(symbols) > 0 {
		lr.readers = append(lr.readers, NewSymbolsLineReader(symbols))
	}

	return lr, nil
}

// Readers returns the readers in the order they annotate a line.
func (lr *LineReaders) Readers() []LineReader {
	return lr.readers
}

// Close releases every report stream, reporting all close errors.
func (lr *LineReaders) Close() error {
	var errs []error
	for _, c := range lr.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	lr.closers = nil
	return errors.Join(errs...)
}
