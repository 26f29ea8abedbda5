package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// maxLineSize bounds a single source line.
const maxLineSize = 16 * 1024 * 1024

// Reader reads a report directory. Optional facets whose file is missing are absent.
type Reader struct {
	dir string
}

var _ contract.ReportReader = &Reader{} // Compile-time check

// NewReader returns a Reader over dir. The directory is not checked until first read.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// Dir returns the report directory.
func (r *Reader) Dir() string {
	return r.dir
}

func (r *Reader) ReadMetadata() (schema.Metadata, error) {
	var meta schema.Metadata
	if err := readYAML(filepath.Join(r.dir, metadataFile), &meta); err != nil {
		return schema.Metadata{}, fmt.Errorf("failed to read report metadata: %w", err)
	}
	return meta, nil
}

func (r *Reader) ReadComponent(ref int) (schema.ComponentMetadata, error) {
	var c schema.ComponentMetadata
	if err := readYAML(filePath(r.dir, componentPrefix, ref), &c); err != nil {
		return schema.ComponentMetadata{}, fmt.Errorf("failed to read component %d: %w", ref, err)
	}
	if c.Ref != ref {
		return schema.ComponentMetadata{}, fmt.Errorf("component file %s holds ref %d", fileName(componentPrefix, ref), c.Ref)
	}
	return c, nil
}

// ReadFileSource returns the lines of the source file of ref. A missing source file is an error.
func (r *Reader) ReadFileSource(ref int) (contract.CloseableIterator[string], error) {
	f, err := os.Open(filePath(r.dir, sourcePrefix, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to open source of component %d: %w", ref, err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineIterator{file: f, scanner: scanner}, nil
}

func (r *Reader) ReadComponentCoverage(ref int) (contract.CloseableIterator[schema.Coverage], error) {
	return openStream[schema.Coverage](filePath(r.dir, coveragePrefix, ref))
}

func (r *Reader) ReadChangesets(ref int) (*schema.Changesets, error) {
	var changesets schema.Changesets
	found, err := readMsgpack(filePath(r.dir, changesetsPrefix, ref), &changesets)
	if err != nil || !found {
		return nil, err
	}
	return &changesets, nil
}

func (r *Reader) ReadComponentSyntaxHighlighting(ref int) (contract.CloseableIterator[schema.SyntaxHighlighting], error) {
	return openStream[schema.SyntaxHighlighting](filePath(r.dir, highlightingPrefix, ref))
}

func (r *Reader) ReadComponentSymbols(ref int) ([]schema.Symbol, error) {
	var symbols []schema.Symbol
	if _, err := readMsgpack(filePath(r.dir, symbolsPrefix, ref), &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *Reader) ReadComponentDuplications(ref int) ([]schema.Duplication, error) {
	var duplications []schema.Duplication
	if _, err := readMsgpack(filePath(r.dir, duplicationsPrefix, ref), &duplications); err != nil {
		return nil, err
	}
	return duplications, nil
}

func (r *Reader) ReadComponentMeasures(ref int) ([]schema.RawMeasure, error) {
	var measures []schema.RawMeasure
	if _, err := readMsgpack(filePath(r.dir, measuresPrefix, ref), &measures); err != nil {
		return nil, err
	}
	return measures, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readMsgpack decodes the single value stored at path. It reports false when the file does not exist.
func readMsgpack(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

// openStream opens a file of concatenated msgpack records. A missing file yields a nil iterator.
func openStream[T any](path string) (contract.CloseableIterator[T], error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &streamIterator[T]{file: f, path: path, dec: msgpack.NewDecoder(bufio.NewReader(f))}, nil
}

type lineIterator struct {
	file    *os.File
	scanner *bufio.Scanner
	current string
	closed  bool
}

func (it *lineIterator) Next() bool {
	if it.closed || !it.scanner.Scan() {
		return false
	}
	it.current = it.scanner.Text()
	return true
}

func (it *lineIterator) Value() string { return it.current }

func (it *lineIterator) Err() error { return it.scanner.Err() }

func (it *lineIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.file.Close()
}

type streamIterator[T any] struct {
	file    *os.File
	path    string
	dec     *msgpack.Decoder
	current T
	err     error
	closed  bool
}

func (it *streamIterator[T]) Next() bool {
	if it.closed || it.err != nil {
		return false
	}
	var v T
	if err := it.dec.Decode(&v); err != nil {
		if !errors.Is(err, io.EOF) {
			it.err = fmt.Errorf("failed to decode %s: %w", it.path, err)
		}
		return false
	}
	it.current = v
	return true
}

func (it *streamIterator[T]) Value() T { return it.current }

func (it *streamIterator[T]) Err() error { return it.err }

func (it *streamIterator[T]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.file.Close()
}
