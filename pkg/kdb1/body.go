package kdb1

// parsedBody is the intermediate result of walking a decrypted plaintext
// body: a flat, pre-order list of groups with a parallel levels array, and
// a flat list of entries. tree.go turns this into the linked Group/Entry
// graph a Vault exposes.
type parsedBody struct {
	groups  []*Group
	levels  []int
	entries []*Entry
}

// parseBody walks plaintext as numGroups groups followed by numEntries
// entries, each terminated by a 0xFFFF field. Any read that would run past
// the end of plaintext fails with TruncatedBody.
func parseBody(plaintext []byte, numGroups, numEntries uint32) (*parsedBody, error) {
	c := &fieldCursor{buf: plaintext}

	groups := make([]*Group, 0, numGroups)
	levels := make([]int, 0, numGroups)
	for i := uint32(0); i < numGroups; i++ {
		g, level, err := parseGroupFields(c)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
		levels = append(levels, level)
	}

	entries := make([]*Entry, 0, numEntries)
	for i := uint32(0); i < numEntries; i++ {
		e, sawGroupID, err := parseEntryFields(c)
		if err != nil {
			return nil, err
		}
		if !sawGroupID {
			return nil, newError(KindOrphanEntry, "parseBody", nil)
		}
		entries = append(entries, e)
	}

	return &parsedBody{groups: groups, levels: levels, entries: entries}, nil
}

// encodeBody serializes groups (in pre-order, with levels already set on
// each Group by the tree walker) followed by entries, in the same flat
// layout parseBody reads.
func encodeBody(groups []*Group, entries []*Entry) ([]byte, error) {
	var buf []byte

	for _, g := range groups {
		encoded, err := encodeGroupFields(g)
		if err != nil {
			return nil, err
		}
		buf = append(buf, encoded...)
	}

	for _, e := range entries {
		encoded, err := encodeEntryFields(e)
		if err != nil {
			return nil, err
		}
		buf = append(buf, encoded...)
	}

	return buf, nil
}
