package source

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// EmptyHash is the hash of an empty byte stream.
const EmptyHash = "d41d8cd98f00b204e9800998ecf8427e"

var whitespaceRemover = strings.NewReplacer(" ", "", "\t", "")

// Md5Hex returns the lowercase hex md5 of data.
func Md5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// LineHash hashes a line ignoring spaces and tabs. Blank lines hash to "".
func LineHash(line string) string {
	reduced := whitespaceRemover.Replace(line)
	if reduced == "" {
		return ""
	}
	return Md5Hex([]byte(reduced))
}

// JoinLineHashes joins per line hashes with newlines.
func JoinLineHashes(hashes []string) string {
	return strings.Join(hashes, "\n")
}

// SplitLineHashes is the inverse of JoinLineHashes.
func SplitLineHashes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
