package source

import (
	"sort"

	"github.com/jblievremont/sonarqube/schema"
)

type textBlock struct {
	start int
	end   int
}

// DuplicationLineReader marks lines belonging to duplicated blocks of the file.
// Blocks are numbered from 1 in (start line, end line) order.
type DuplicationLineReader struct {
	blocks []textBlock
	cursor int
	active []int
}

func NewDuplicationLineReader(duplications []schema.Duplication) *DuplicationLineReader {
	seen := make(map[textBlock]struct{})
	var blocks []textBlock
	add := func(r schema.TextRange) {
		b := textBlock{start: r.StartLine, end: r.EndLine}
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		blocks = append(blocks, b)
	}
	for _, d := range duplications {
		add(d.OriginPosition)
		for _, dup := range d.Duplicates {
			if dup.OtherFileRef != nil {
				continue
			}
			add(dup.Range)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].start != blocks[j].start {
			return blocks[i].start < blocks[j].start
		}
		return blocks[i].end < blocks[j].end
	})
	return &DuplicationLineReader{blocks: blocks}
}

func (r *DuplicationLineReader) Read(line *Line) error {
	for r.cursor < len(r.blocks) && r.blocks[r.cursor].start <= line.Line {
		r.active = append(r.active, r.cursor)
		r.cursor++
	}

	remaining := r.active[:0]
	for _, idx := range r.active {
		b := r.blocks[idx]
		if b.end < line.Line {
			continue
		}
		line.Duplications = append(line.Duplications, idx+1)
		remaining = append(remaining, idx)
	}
	r.active = remaining
	return nil
}
