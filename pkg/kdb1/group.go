package kdb1

// rootGroupID is the sentinel id of the (never-serialized) root group that
// owns every top-level group. Real group ids start at 1.
const rootGroupID uint32 = 0

// Group is a KeePass 1.x group. Groups reference each other by numeric id
// rather than by pointer, and entries by UUID: Parent and Children hold
// ids, Entries holds UUIDs, all into the owning Vault's arenas, avoiding
// reference cycles in the object graph.
type Group struct {
	ID    uint32
	Title string
	Image uint32
	Level int

	Created    DateTime
	LastMod    DateTime
	LastAccess DateTime
	Expire     DateTime

	Flags uint32

	Parent   uint32
	Children []uint32
	Entries  [][16]byte
}
