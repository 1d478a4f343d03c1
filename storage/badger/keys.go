package badger

import (
	"encoding/binary"

	"github.com/poiesic/libris/core"
)

// Key prefixes for different data types
const (
	summaryRecordPrefix = "sumrec:"
	summarySourcePrefix = "sumsrc:"
	summaryIDSeq        = "sumseq"
)

// makeSummaryKey generates a key for a summary record by ID.
// Format: prefix:id, with the ID in BigEndian so iteration follows ID order.
func makeSummaryKey(id core.ID) []byte {
	buf := make([]byte, len(summaryRecordPrefix)+8)
	offset := copy(buf, summaryRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSourceKey generates a composite key for the source index.
// Format: prefix:hash(source):id
func makeSourceKey(source string, id core.ID) []byte {
	buf := make([]byte, len(summarySourcePrefix)+16)
	offset := copy(buf, makePartialSourceKey(source))
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSourceKey generates the prefix shared by every index entry of a source.
// Format: prefix:hash(source)
func makePartialSourceKey(source string) []byte {
	buf := make([]byte, len(summarySourcePrefix)+8)
	offset := copy(buf, summarySourcePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(source)))
	return buf
}
