package kdb1

import (
	"crypto/rand"
	"time"
)

func dateTimeNow() DateTime {
	t := time.Now().UTC()
	return DateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// relinearize rebuilds v.Groups as the pre-order flattening of the tree
// described by each Group's Children field and v.rootChildren, setting
// every Group's Level to its depth. Every mutation below that changes
// parent/child structure finishes by calling this, so v.Groups is always
// a valid pre-order list afterward.
func (v *Vault) relinearize() {
	byID := make(map[uint32]*Group, len(v.Groups))
	for _, g := range v.Groups {
		byID[g.ID] = g
	}

	var out []*Group
	var walk func(ids []uint32, depth int)
	walk = func(ids []uint32, depth int) {
		for _, id := range ids {
			g, ok := byID[id]
			if !ok {
				continue
			}
			g.Level = depth
			out = append(out, g)
			walk(g.Children, depth+1)
		}
	}
	walk(v.rootChildren, 0)
	v.Groups = out
}

func removeUint32(s []uint32, id uint32) []uint32 {
	for i, v := range s {
		if v == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

func removeUUID(s [][16]byte, uuid [16]byte) [][16]byte {
	for i, v := range s {
		if v == uuid {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

func indexOfUint32(s []uint32, id uint32) int {
	for i, v := range s {
		if v == id {
			return i
		}
	}
	return -1
}

func indexOfUUID(s [][16]byte, uuid [16]byte) int {
	for i, v := range s {
		if v == uuid {
			return i
		}
	}
	return -1
}

// childSlice returns a pointer to the ordered child-id slice belonging to
// groupID (v.rootChildren for the root, or the owning Group's Children).
func (v *Vault) childSlice(groupID uint32) *[]uint32 {
	if groupID == rootGroupID {
		return &v.rootChildren
	}
	g := v.GroupByID(groupID)
	if g == nil {
		return nil
	}
	return &g.Children
}

func isDescendant(ancestor, candidateID uint32, byID map[uint32]*Group) bool {
	id := candidateID
	for id != rootGroupID {
		if id == ancestor {
			return true
		}
		g, ok := byID[id]
		if !ok {
			return false
		}
		id = g.Parent
	}
	return false
}

// CreateGroup creates a new group titled title under parent (root if nil),
// assigning it the next unused id. expire is validated as a calendar date.
func (v *Vault) CreateGroup(title string, parent *Group, image uint32, expire DateTime) (*Group, error) {
	const op = "CreateGroup"
	if err := expire.Validate(); err != nil {
		return nil, err
	}

	parentID := rootGroupID
	if parent != nil {
		parentID = parent.ID
	}

	var maxID uint32
	for _, g := range v.Groups {
		if g.ID > maxID {
			maxID = g.ID
		}
	}

	now := dateTimeNow()
	g := &Group{
		ID: maxID + 1, Title: title, Image: image, Parent: parentID,
		Created: now, LastMod: now, LastAccess: now, Expire: expire,
	}

	children := v.childSlice(parentID)
	if children == nil {
		return nil, newError(KindNotFound, op, nil)
	}
	*children = append(*children, g.ID)

	v.Groups = append(v.Groups, g)
	v.relinearize()
	return g, nil
}

// RemoveGroup deletes g along with every descendant group and every entry
// owned by g or any descendant.
func (v *Vault) RemoveGroup(g *Group) error {
	byID := make(map[uint32]*Group, len(v.Groups))
	for _, group := range v.Groups {
		byID[group.ID] = group
	}

	var doomedGroups []uint32
	var doomedEntries [][16]byte
	var collect func(id uint32)
	collect = func(id uint32) {
		group := byID[id]
		doomedGroups = append(doomedGroups, id)
		doomedEntries = append(doomedEntries, group.Entries...)
		for _, childID := range group.Children {
			collect(childID)
		}
	}
	collect(g.ID)

	*v.childSlice(g.Parent) = removeUint32(*v.childSlice(g.Parent), g.ID)

	doomedGroupSet := make(map[uint32]bool, len(doomedGroups))
	for _, id := range doomedGroups {
		doomedGroupSet[id] = true
	}
	var keptGroups []*Group
	for _, group := range v.Groups {
		if !doomedGroupSet[group.ID] {
			keptGroups = append(keptGroups, group)
		}
	}
	v.Groups = keptGroups

	doomedEntrySet := make(map[[16]byte]bool, len(doomedEntries))
	for _, uuid := range doomedEntries {
		doomedEntrySet[uuid] = true
	}
	var keptEntries []*Entry
	for _, e := range v.Entries {
		if !doomedEntrySet[e.UUID] {
			keptEntries = append(keptEntries, e)
		}
	}
	v.Entries = keptEntries

	v.relinearize()
	return nil
}

// MoveGroup reparents g under newParent (root if nil). It rejects moving a
// group to be its own parent or a descendant of itself.
func (v *Vault) MoveGroup(g *Group, newParent *Group) error {
	const op = "MoveGroup"
	if newParent == g {
		return newError(KindBadArgument, op, nil)
	}

	newParentID := rootGroupID
	if newParent != nil {
		newParentID = newParent.ID
	}

	byID := make(map[uint32]*Group, len(v.Groups))
	for _, group := range v.Groups {
		byID[group.ID] = group
	}
	if isDescendant(g.ID, newParentID, byID) {
		return newError(KindBadArgument, op, nil)
	}

	*v.childSlice(g.Parent) = removeUint32(*v.childSlice(g.Parent), g.ID)
	g.Parent = newParentID
	*v.childSlice(newParentID) = append(*v.childSlice(newParentID), g.ID)
	g.LastMod = dateTimeNow()

	v.relinearize()
	return nil
}

// MoveGroupInParent swaps g with whichever sibling currently sits at index
// within their shared parent's child order.
func (v *Vault) MoveGroupInParent(g *Group, index int) error {
	const op = "MoveGroupInParent"
	children := v.childSlice(g.Parent)
	if index < 0 || index >= len(*children) {
		return newError(KindIndexOutOfRange, op, nil)
	}

	from := indexOfUint32(*children, g.ID)
	if from < 0 {
		return newError(KindNotFound, op, nil)
	}

	otherID := (*children)[index]
	(*children)[from], (*children)[index] = (*children)[index], (*children)[from]

	now := dateTimeNow()
	g.LastMod = now
	if other := v.GroupByID(otherID); other != nil {
		other.LastMod = now
	}

	v.relinearize()
	return nil
}

// CreateEntry creates a new entry owned by group, with a fresh random UUID.
func (v *Vault) CreateEntry(group *Group, title, url, username, password, comment string, image uint32, expire DateTime) (*Entry, error) {
	if err := expire.Validate(); err != nil {
		return nil, err
	}

	var uuid [16]byte
	if _, err := rand.Read(uuid[:]); err != nil {
		return nil, newError(KindFileIO, "CreateEntry", err)
	}

	now := dateTimeNow()
	e := &Entry{
		UUID: uuid, GroupID: group.ID, Image: image,
		Title: title, URL: url, Username: username, Password: password, Comment: comment,
		Created: now, LastMod: now, LastAccess: now, Expire: expire,
	}

	group.Entries = append(group.Entries, uuid)
	v.Entries = append(v.Entries, e)
	return e, nil
}

// RemoveEntry deletes e from its owning group and from the vault.
func (v *Vault) RemoveEntry(e *Entry) error {
	if g := v.GroupByID(e.GroupID); g != nil {
		g.Entries = removeUUID(g.Entries, e.UUID)
	}
	idx := -1
	for i, entry := range v.Entries {
		if entry.UUID == e.UUID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return newError(KindNotFound, "RemoveEntry", nil)
	}
	v.Entries = append(v.Entries[:idx:idx], v.Entries[idx+1:]...)
	return nil
}

// MoveEntry reassigns e to newGroup.
func (v *Vault) MoveEntry(e *Entry, newGroup *Group) error {
	if oldGroup := v.GroupByID(e.GroupID); oldGroup != nil {
		oldGroup.Entries = removeUUID(oldGroup.Entries, e.UUID)
	}
	newGroup.Entries = append(newGroup.Entries, e.UUID)
	e.GroupID = newGroup.ID
	e.LastMod = dateTimeNow()
	return nil
}

// MoveEntryInGroup swaps e with whichever entry currently sits at index
// within its owning group's entry order, and mirrors the swap in the
// vault's flat entry order.
func (v *Vault) MoveEntryInGroup(e *Entry, index int) error {
	const op = "MoveEntryInGroup"
	g := v.GroupByID(e.GroupID)
	if g == nil {
		return newError(KindNotFound, op, nil)
	}
	if index < 0 || index >= len(g.Entries) {
		return newError(KindIndexOutOfRange, op, nil)
	}

	from := indexOfUUID(g.Entries, e.UUID)
	if from < 0 {
		return newError(KindNotFound, op, nil)
	}
	otherUUID := g.Entries[index]
	g.Entries[from], g.Entries[index] = g.Entries[index], g.Entries[from]

	flatFrom := indexOfUUID(entryUUIDs(v.Entries), e.UUID)
	flatTo := indexOfUUID(entryUUIDs(v.Entries), otherUUID)
	if flatFrom >= 0 && flatTo >= 0 {
		v.Entries[flatFrom], v.Entries[flatTo] = v.Entries[flatTo], v.Entries[flatFrom]
	}

	now := dateTimeNow()
	e.LastMod = now
	if other := v.EntryByUUID(otherUUID); other != nil {
		other.LastMod = now
	}
	return nil
}

func entryUUIDs(entries []*Entry) [][16]byte {
	uuids := make([][16]byte, len(entries))
	for i, e := range entries {
		uuids[i] = e.UUID
	}
	return uuids
}
