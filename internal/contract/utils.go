package contract

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/schema"
)

// Color variables for console output.
var (
	InsertedColor  = color.New(color.FgGreen, color.Bold) // new rows
	UpdatedColor   = color.New(color.FgYellow)            // rewritten rows
	UnchangedColor = color.New(color.FgCyan)              // untouched rows
	FailedColor    = color.New(color.FgRed, color.Bold)
)

// GetColorLabel returns a colored label for a persistence outcome.
func GetColorLabel(outcome schema.Outcome) string {
	text := string(outcome)
	switch outcome {
	case schema.InsertedOutcome:
		return InsertedColor.Sprint(text)
	case schema.UpdatedOutcome:
		return UpdatedColor.Sprint(text)
	case schema.UnchangedOutcome:
		return UnchangedColor.Sprint(text)
	default:
		return FailedColor.Sprint(text)
	}
}

// SelectOutputFile returns the file to write output to, or os.Stdout when filePath is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logging.Default().Error(msg, logging.FieldError, err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	logging.Default().Warn(msg, logging.FieldError, err)
}

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ce.db"
	}
	return filepath.Join(homeDir, ".ce.db")
}

// sliceIterator iterates over an in-memory slice.
type sliceIterator[T any] struct {
	items  []T
	pos    int
	closed bool
}

// NewSliceIterator returns a CloseableIterator over items. Close has nothing to release
// but stops the iteration.
func NewSliceIterator[T any](items []T) CloseableIterator[T] {
	return &sliceIterator[T]{items: items, pos: -1}
}

func (it *sliceIterator[T]) Next() bool {
	if it.closed || it.pos+1 >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator[T]) Value() T {
	return it.items[it.pos]
}

func (it *sliceIterator[T]) Err() error { return nil }

func (it *sliceIterator[T]) Close() error {
	it.closed = true
	return nil
}
