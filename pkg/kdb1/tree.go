package kdb1

// buildTree reconstructs the group hierarchy from a flat, pre-order group
// list and a parallel levels array, then attaches each entry to its owning
// group. It mirrors the recursive "nearest shallower ancestor" reasoning
// used to rebuild a tree from a depth stream, generalized here to an
// iterative backward scan since the depths are already fully known up
// front (unlike a live recursive-descent build).
func buildTree(pb *parsedBody) (groups []*Group, entries []*Entry, err error) {
	groups = pb.groups
	entries = pb.entries
	levels := pb.levels

	if len(groups) == 0 {
		return groups, entries, nil
	}
	if levels[0] != 0 {
		return nil, nil, newError(KindInvalidTree, "buildTree", nil)
	}

	for i := range groups {
		groups[i].Level = levels[i]
		groups[i].Children = nil
		groups[i].Entries = nil
		if levels[i] == 0 {
			groups[i].Parent = rootGroupID
			continue
		}

		parentIdx := -1
		for j := i - 1; j >= 0; j-- {
			if levels[j] < levels[i] {
				parentIdx = j
				break
			}
		}
		if parentIdx < 0 {
			return nil, nil, newError(KindInvalidTree, "buildTree", nil)
		}
		if levels[i]-levels[parentIdx] != 1 {
			return nil, nil, newError(KindInvalidTree, "buildTree", nil)
		}

		groups[i].Parent = groups[parentIdx].ID
		groups[parentIdx].Children = append(groups[parentIdx].Children, groups[i].ID)
	}

	byID := make(map[uint32]*Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	for _, e := range entries {
		g, ok := byID[e.GroupID]
		if !ok {
			return nil, nil, newError(KindOrphanEntry, "buildTree", nil)
		}
		g.Entries = append(g.Entries, e.UUID)
	}

	return groups, entries, nil
}

// preOrderGroups walks the tree rooted at rootGroupID and returns the flat,
// pre-order group list that encodeBody expects, with each Group's Level
// field set to its depth. This is the inverse of buildTree's reconstruction.
func preOrderGroups(byID map[uint32]*Group, childrenOf map[uint32][]uint32) []*Group {
	var out []*Group
	var walk func(parent uint32, depth int)
	walk = func(parent uint32, depth int) {
		for _, childID := range childrenOf[parent] {
			g := byID[childID]
			g.Level = depth
			out = append(out, g)
			walk(childID, depth+1)
		}
	}
	walk(rootGroupID, 0)
	return out
}
