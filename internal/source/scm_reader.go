package source

import (
	"fmt"

	"github.com/jblievremont/sonarqube/schema"
)

// ScmLineReader annotates lines with the changeset that last touched them.
type ScmLineReader struct {
	changesets *schema.Changesets
}

func NewScmLineReader(changesets *schema.Changesets) *ScmLineReader {
	return &ScmLineReader{changesets: changesets}
}

func (r *ScmLineReader) Read(line *Line) error {
	index := line.Line - 1
	if index < 0 || index >= len(r.changesets.ChangesetIndexByLine) {
		return nil
	}
	changesetIndex := r.changesets.ChangesetIndexByLine[index]
	if changesetIndex < 0 || changesetIndex >= len(r.changesets.Changesets) {
		return fmt.Errorf("changeset index %d out of range (%d changesets)", changesetIndex, len(r.changesets.Changesets))
	}
	changeset := r.changesets.Changesets[changesetIndex]
	line.ScmAuthor = changeset.Author
	line.ScmRevision = changeset.Revision
	line.ScmDate = changeset.Date
	return nil
}
