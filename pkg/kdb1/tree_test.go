package kdb1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTreeSimpleHierarchy(t *testing.T) {
	pb := &parsedBody{
		groups: []*Group{
			{ID: 1, Title: "Internet"},
			{ID: 2, Title: "eMail"},
			{ID: 3, Title: "Work"},
			{ID: 4, Title: "Banking"},
		},
		levels: []int{0, 1, 1, 0},
		entries: []*Entry{
			{UUID: [16]byte{1}, GroupID: 2},
			{UUID: [16]byte{2}, GroupID: 4},
		},
	}

	groups, _, err := buildTree(pb)
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}

	if groups[0].Parent != rootGroupID || groups[3].Parent != rootGroupID {
		t.Errorf("top-level groups should have root as parent, got %d / %d", groups[0].Parent, groups[3].Parent)
	}
	if groups[1].Parent != 1 || groups[2].Parent != 1 {
		t.Errorf("eMail/Work should be children of Internet (id 1), got %d / %d", groups[1].Parent, groups[2].Parent)
	}
	if len(groups[0].Children) != 2 {
		t.Errorf("Internet should have 2 children, got %d", len(groups[0].Children))
	}
	if len(groups[1].Entries) != 1 || groups[1].Entries[0] != [16]byte{1} {
		t.Errorf("eMail should own entry {1}, got %v", groups[1].Entries)
	}
	if len(groups[3].Entries) != 1 || groups[3].Entries[0] != [16]byte{2} {
		t.Errorf("Banking should own entry {2}, got %v", groups[3].Entries)
	}
}

func TestBuildTreeRejectsNonZeroFirstLevel(t *testing.T) {
	pb := &parsedBody{
		groups: []*Group{{ID: 1}},
		levels: []int{1},
	}
	_, _, err := buildTree(pb)
	if !errors.Is(err, ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestBuildTreeRejectsLevelJumpGreaterThanOne(t *testing.T) {
	pb := &parsedBody{
		groups: []*Group{{ID: 1}, {ID: 2}},
		levels: []int{0, 2},
	}
	_, _, err := buildTree(pb)
	if !errors.Is(err, ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestBuildTreeRejectsNoShallowerAncestor(t *testing.T) {
	// Once levels[0] is 0, group 0 is a shallower ancestor of every deeper
	// group, so a stream in which some group has no shallower ancestor
	// necessarily starts above level 0; buildTree rejects it through its
	// levels[0] check.
	pb := &parsedBody{
		groups: []*Group{{ID: 1}, {ID: 2}},
		levels: []int{1, 1},
	}
	_, _, err := buildTree(pb)
	if !errors.Is(err, ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestBuildTreeRejectsOrphanEntry(t *testing.T) {
	pb := &parsedBody{
		groups:  []*Group{{ID: 1}},
		levels:  []int{0},
		entries: []*Entry{{UUID: [16]byte{9}, GroupID: 99}},
	}
	_, _, err := buildTree(pb)
	if !errors.Is(err, ErrOrphanEntry) {
		t.Fatalf("expected ErrOrphanEntry, got %v", err)
	}
}

func TestPreOrderGroupsInverseOfBuildTree(t *testing.T) {
	pb := &parsedBody{
		groups: []*Group{
			{ID: 1, Title: "Internet"},
			{ID: 2, Title: "eMail"},
			{ID: 3, Title: "Work"},
		},
		levels: []int{0, 1, 0},
	}
	groups, _, err := buildTree(pb)
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}

	byID := make(map[uint32]*Group, len(groups))
	childrenOf := make(map[uint32][]uint32)
	for _, g := range groups {
		byID[g.ID] = g
		childrenOf[g.Parent] = append(childrenOf[g.Parent], g.ID)
	}

	out := preOrderGroups(byID, childrenOf)
	require.Len(t, out, 3)
	require.Equal(t, uint32(1), out[0].ID)
	require.Equal(t, 0, out[0].Level)
	require.Equal(t, uint32(2), out[1].ID)
	require.Equal(t, 1, out[1].Level)
	require.Equal(t, uint32(3), out[2].ID)
	require.Equal(t, 0, out[2].Level)
}
