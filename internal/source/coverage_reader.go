package source

import (
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

// CoverageLineReader reads a sparse stream of per-line coverage records.
// Records must come in ascending line order.
type CoverageLineReader struct {
	iter    contract.CloseableIterator[schema.Coverage]
	pending *schema.Coverage
}

// NewCoverageLineReader wraps a coverage stream. The caller keeps ownership of iter.
func NewCoverageLineReader(iter contract.CloseableIterator[schema.Coverage]) *CoverageLineReader {
	return &CoverageLineReader{iter: iter}
}

func (r *CoverageLineReader) Read(line *Line) error {
	cov, err := r.nextMatching(line.Line)
	if err != nil || cov == nil {
		return err
	}

	if cov.UtHits != nil {
		line.UtLineHits = hits(*cov.UtHits)
	}
	if cov.ItHits != nil {
		line.ItLineHits = hits(*cov.ItHits)
	}
	if cov.UtHits != nil || cov.ItHits != nil {
		line.OverallLineHits = hits(isTrue(cov.UtHits) || isTrue(cov.ItHits))
	}
	if cov.Conditions != nil {
		line.UtConditions = int32Ptr(*cov.Conditions)
		line.UtCoveredConditions = int32Ptr(valueOrZero(cov.UtCoveredConditions))
		line.ItConditions = int32Ptr(*cov.Conditions)
		line.ItCoveredConditions = int32Ptr(valueOrZero(cov.ItCoveredConditions))
		line.OverallConditions = int32Ptr(*cov.Conditions)
		line.OverallCoveredConditions = int32Ptr(valueOrZero(cov.OverallCoveredConditions))
	}
	return nil
}

// nextMatching returns the record for lineNumber, if the stream has one.
// Records for lines already passed are dropped.
func (r *CoverageLineReader) nextMatching(lineNumber int) (*schema.Coverage, error) {
	for {
		if r.pending == nil {
			if !r.iter.Next() {
				return nil, r.iter.Err()
			}
			cov := r.iter.Value()
			r.pending = &cov
		}
		switch {
		case r.pending.Line == lineNumber:
			cov := r.pending
			r.pending = nil
			return cov, nil
		case r.pending.Line > lineNumber:
			return nil, nil
		default:
			r.pending = nil
		}
	}
}

func hits(covered bool) *int32 {
	if covered {
		return int32Ptr(1)
	}
	return int32Ptr(0)
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func valueOrZero(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}

func int32Ptr(v int32) *int32 {
	return &v
}
