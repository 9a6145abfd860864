// Package extract builds the lightweight structural model of a codebase:
// declaration nodes and database-access facts. The rest of the pipeline
// depends only on these types, never on how a file was parsed.
package extract

import (
	"fmt"
)

// NodeKind tags the kind of an extracted declaration
type NodeKind string

const (
	// KindStruct covers struct/class/enum-like type declarations
	KindStruct NodeKind = "struct"
	// KindInterface covers interface/trait-like declarations
	KindInterface NodeKind = "interface"
	// KindFunction covers free functions and methods
	KindFunction NodeKind = "function"
)

// Operation classifies a database access
type Operation string

const (
	// OpSelect is a read access
	OpSelect Operation = "select"
	// OpInsert is a row creation
	OpInsert Operation = "insert"
	// OpUpdate is a row modification
	OpUpdate Operation = "update"
	// OpDelete is a row removal
	OpDelete Operation = "delete"
)

// DeclarationNode is one extracted unit of source structure. Nodes are
// immutable after extraction; identity is (kind, file, line, name).
type DeclarationNode struct {
	// Kind is the declaration kind
	Kind NodeKind `json:"kind"`
	// Name is the declared identifier
	Name string `json:"name"`
	// File is the repo-relative path of the declaring file
	File string `json:"file"`
	// Line is the 1-indexed declaration line
	Line int `json:"line"`
	// Fields holds struct fields, interface method names, or function parameters
	Fields []string `json:"fields,omitempty"`
	// CalledIdentifiers are identifiers invoked inside a function body
	CalledIdentifiers []string `json:"calledIdentifiers,omitempty"`
	// Receiver is the receiver/owner type for methods
	Receiver string `json:"receiver,omitempty"`
	// Tables are database tables this node touches
	Tables []string `json:"tables,omitempty"`
}

// ID returns the stable identity of a node
func (n *DeclarationNode) ID() string {
	return fmt.Sprintf("%s:%s:%d:%s", n.Kind, n.File, n.Line, n.Name)
}

// DatabaseAccessFact records one table access observed in a function body
type DatabaseAccessFact struct {
	// Table is the accessed table name
	Table string `json:"table"`
	// Operation is the inferred access operation
	Operation Operation `json:"operation"`
	// File is the repo-relative path of the accessing file
	File string `json:"file"`
	// Function is the name of the enclosing function
	Function string `json:"function"`
}

// FileStructure is the extraction result for a single file
type FileStructure struct {
	// Path is the repo-relative file path
	Path string
	// Structs are struct-like declarations
	Structs []DeclarationNode
	// Interfaces are interface-like declarations
	Interfaces []DeclarationNode
	// Functions are function-like declarations
	Functions []DeclarationNode
	// DatabaseAccess are the table access facts derived from function bodies
	DatabaseAccess []DatabaseAccessFact
}

// Empty reports whether extraction produced no nodes for the file
func (fs *FileStructure) Empty() bool {
	return len(fs.Structs) == 0 && len(fs.Interfaces) == 0 && len(fs.Functions) == 0
}

// NodeCount returns the total number of declarations in the file
func (fs *FileStructure) NodeCount() int {
	return len(fs.Structs) + len(fs.Interfaces) + len(fs.Functions)
}
