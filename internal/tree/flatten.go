package tree

import "github.com/temirov/svgtree/internal/types"

// Flatten returns the pre-order render sequence of the root's descendants.
// The root itself is not part of the sequence. Each entry carries the is-last
// flag of every strict ancestor below the root, so its length equals the depth.
func Flatten(root *types.TreeEntry) []types.FlatEntry {
	if root == nil {
		return nil
	}
	var flattened []types.FlatEntry
	var visit func(entries []*types.TreeEntry, ancestorLast []bool)
	visit = func(entries []*types.TreeEntry, ancestorLast []bool) {
		for _, entry := range entries {
			flattened = append(flattened, types.FlatEntry{Entry: entry, AncestorLast: ancestorLast})
			if len(entry.Children) == 0 {
				continue
			}
			childAncestorLast := make([]bool, len(ancestorLast)+1)
			copy(childAncestorLast, ancestorLast)
			childAncestorLast[len(ancestorLast)] = entry.IsLast
			visit(entry.Children, childAncestorLast)
		}
	}
	visit(root.Children, []bool{})
	return flattened
}

// FilePaths returns the paths of all file entries in render order.
func FilePaths(flattened []types.FlatEntry) []string {
	var paths []string
	for _, flatEntry := range flattened {
		if !flatEntry.Entry.IsDir {
			paths = append(paths, flatEntry.Entry.Path)
		}
	}
	return paths
}
