package extract

import (
	"sort"
)

// Arena owns every extracted node for one discovery run. Clusters reference
// nodes by stable integer index rather than by pointer, so merging candidates
// can never alias or mutate a node.
type Arena struct {
	nodes []DeclarationNode
	facts []DatabaseAccessFact
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// AddFile appends all nodes and facts from one extracted file
func (a *Arena) AddFile(fs *FileStructure) {
	if fs == nil {
		return
	}
	a.nodes = append(a.nodes, fs.Structs...)
	a.nodes = append(a.nodes, fs.Interfaces...)
	a.nodes = append(a.nodes, fs.Functions...)
	a.facts = append(a.facts, fs.DatabaseAccess...)
}

// Sort orders nodes by (file, line, name) and facts by (file, function, table).
// Every downstream stage iterates in this order, which is what makes discovery
// reproducible regardless of parallel extraction completion order.
func (a *Arena) Sort() {
	sort.Slice(a.nodes, func(i, j int) bool {
		ni, nj := a.nodes[i], a.nodes[j]
		if ni.File != nj.File {
			return ni.File < nj.File
		}
		if ni.Line != nj.Line {
			return ni.Line < nj.Line
		}
		return ni.Name < nj.Name
	})
	sort.Slice(a.facts, func(i, j int) bool {
		fi, fj := a.facts[i], a.facts[j]
		if fi.File != fj.File {
			return fi.File < fj.File
		}
		if fi.Function != fj.Function {
			return fi.Function < fj.Function
		}
		return fi.Table < fj.Table
	})
}

// Len returns the number of nodes in the arena
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns the node at index i
func (a *Arena) Node(i int) *DeclarationNode {
	return &a.nodes[i]
}

// Nodes returns the full node slice (read-only by convention)
func (a *Arena) Nodes() []DeclarationNode {
	return a.nodes
}

// Facts returns all database access facts
func (a *Arena) Facts() []DatabaseAccessFact {
	return a.facts
}

// Files returns the sorted distinct set of files covered by the arena
func (a *Arena) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for i := range a.nodes {
		if !seen[a.nodes[i].File] {
			seen[a.nodes[i].File] = true
			files = append(files, a.nodes[i].File)
		}
	}
	sort.Strings(files)
	return files
}
