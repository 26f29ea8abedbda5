// Package report reads and writes batch reports laid out as a directory of files.
package report

import (
	"fmt"
	"path/filepath"
)

// File names inside a report directory.
const (
	metadataFile = "metadata.yaml"

	componentPrefix    = "component"
	sourcePrefix       = "source"
	coveragePrefix     = "coverage"
	changesetsPrefix   = "changesets"
	highlightingPrefix = "syntax-highlighting"
	symbolsPrefix      = "symbols"
	duplicationsPrefix = "duplications"
	measuresPrefix     = "measures"
)

func fileName(prefix string, ref int) string {
	switch prefix {
	case componentPrefix:
		return fmt.Sprintf("%s-%d.yaml", prefix, ref)
	case sourcePrefix:
		return fmt.Sprintf("%s-%d.txt", prefix, ref)
	default:
		return fmt.Sprintf("%s-%d.pb", prefix, ref)
	}
}

func filePath(dir, prefix string, ref int) string {
	return filepath.Join(dir, fileName(prefix, ref))
}
