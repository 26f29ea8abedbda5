package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jblievremont/sonarqube/schema"
)

const (
	offsetSeparator = ","
	itemSeparator   = ";"
)

// rangeOffsets renders the part of r lying on line as "start,end". Offsets and lineLength
// count characters. It returns "" when the range covers nothing on that line.
func rangeOffsets(r schema.TextRange, line, lineLength int) (string, error) {
	if !rangeTouches(r, line) {
		return "", nil
	}
	if r.StartLine == r.EndLine && r.StartOffset > r.EndOffset {
		return "", fmt.Errorf("end offset %d cannot be defined before start offset %d on line %d", r.EndOffset, r.StartOffset, line)
	}
	start := 0
	if r.StartLine == line {
		start = r.StartOffset
	}
	end := lineLength
	if r.EndLine == line {
		end = r.EndOffset
	}
	if start >= end {
		return "", nil
	}
	return strconv.Itoa(start) + offsetSeparator + strconv.Itoa(end), nil
}

func rangeTouches(r schema.TextRange, line int) bool {
	return r.StartLine <= line && r.EndLine >= line
}

// appendItem adds one "offsets,value" item to a line annotation.
func appendItem(sb *strings.Builder, offsets, value string) {
	if sb.Len() > 0 {
		sb.WriteString(itemSeparator)
	}
	sb.WriteString(offsets)
	sb.WriteString(offsetSeparator)
	sb.WriteString(value)
}

func stringPtr(s string) *string {
	return &s
}
