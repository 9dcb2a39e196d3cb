package sink

import "encoding/binary"

// Key layout. Every key is a namespace byte followed by fixed-width
// big-endian fields, so badger's natural lexicographic ordering doubles
// as the ascending numeric ordering the query surface needs — no sort
// step at read time.
//
//	assignment:    'A' n(u32) pageID(u64)                 -> cycleOrHalt(u64) depth(i32) kind(u8)
//	basinMember:   'B' n(u32) cyclePageID(u64) depth(u32) pageID(u64)   (empty value)
//	cycleInfo:     'C' n(u32) cyclePageID(u64)             -> length(u32)
const (
	nsAssignment  = 'A'
	nsBasinMember = 'B'
	nsCycleInfo   = 'C'
)

func keyAssignmentPrefix(n int) []byte {
	k := make([]byte, 1+4)
	k[0] = nsAssignment
	binary.BigEndian.PutUint32(k[1:5], uint32(n))
	return k
}

func keyAssignment(n int, pageID int64) []byte {
	prefix := keyAssignmentPrefix(n)
	k := make([]byte, len(prefix)+8)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(pageID))
	return k
}

// depthBias shifts a depth (>= -1, where -1 is cycles.InfiniteDepth) into
// an unsigned range so big-endian byte order matches ascending numeric
// order; HALT-terminating rows are never indexed as basin members so only
// depth >= 0 ever reaches this encoding.
func depthBias(depth int32) uint32 {
	return uint32(depth) + 1
}

func keyBasinMemberPrefix(n int, cyclePageID int64) []byte {
	k := make([]byte, 1+4+8)
	k[0] = nsBasinMember
	binary.BigEndian.PutUint32(k[1:5], uint32(n))
	binary.BigEndian.PutUint64(k[5:13], uint64(cyclePageID))
	return k
}

func keyBasinMember(n int, cyclePageID int64, depth int32, pageID int64) []byte {
	prefix := keyBasinMemberPrefix(n, cyclePageID)
	k := make([]byte, len(prefix)+4+8)
	copy(k, prefix)
	binary.BigEndian.PutUint32(k[len(prefix):len(prefix)+4], depthBias(depth))
	binary.BigEndian.PutUint64(k[len(prefix)+4:], uint64(pageID))
	return k
}

func decodeBasinMemberKey(k []byte) (depth int32, pageID int64) {
	off := 1 + 4 + 8
	depth = int32(binary.BigEndian.Uint32(k[off:off+4])) - 1
	pageID = int64(binary.BigEndian.Uint64(k[off+4:]))
	return depth, pageID
}

func keyCycleInfoPrefix(n int) []byte {
	k := make([]byte, 1+4)
	k[0] = nsCycleInfo
	binary.BigEndian.PutUint32(k[1:5], uint32(n))
	return k
}

func keyCycleInfo(n int, cyclePageID int64) []byte {
	prefix := keyCycleInfoPrefix(n)
	k := make([]byte, len(prefix)+8)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(cyclePageID))
	return k
}

// assignmentValue packs (cycleOrHalt, depth, kind) for one (N, page_id)
// assignment row.
const (
	kindCycle uint8 = 0
	kindHalt  uint8 = 1
)

func encodeAssignmentValue(cyclePageID int64, depth int32, kind uint8) []byte {
	v := make([]byte, 8+4+1)
	binary.BigEndian.PutUint64(v[0:8], uint64(cyclePageID))
	binary.BigEndian.PutUint32(v[8:12], uint32(depth))
	v[12] = kind
	return v
}

func decodeAssignmentValue(v []byte) (cyclePageID int64, depth int32, kind uint8) {
	cyclePageID = int64(binary.BigEndian.Uint64(v[0:8]))
	depth = int32(binary.BigEndian.Uint32(v[8:12]))
	kind = v[12]
	return
}

func encodeCycleInfoValue(length int) []byte {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, uint32(length))
	return v
}

func decodeCycleInfoValue(v []byte) int {
	return int(binary.BigEndian.Uint32(v))
}
