package extract

import (
	"os"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"vibeflow/internal/errors"
	"vibeflow/internal/paths"
)

// SCIPExtractor serves declarations out of a precomputed SCIP index. When an
// indexer has already run, its symbols are more reliable than any heuristic,
// so the engine prefers indexed documents and falls back per file otherwise.
type SCIPExtractor struct {
	docs map[string]*scippb.Document
}

// LoadSCIPIndex reads and decodes a SCIP index from disk. A missing file is
// reported as os.ErrNotExist so callers can treat it as "no index".
func LoadSCIPIndex(path string) (*SCIPExtractor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.New(errors.IndexInvalid, "cannot decode SCIP index at "+path, err)
	}

	docs := make(map[string]*scippb.Document, len(index.Documents))
	for _, doc := range index.Documents {
		docs[paths.Normalize(doc.RelativePath)] = doc
	}

	return &SCIPExtractor{docs: docs}, nil
}

// Name implements Extractor
func (e *SCIPExtractor) Name() string { return "scip" }

// Has reports whether the index covers a repo-relative path
func (e *SCIPExtractor) Has(path string) bool {
	_, ok := e.docs[paths.Normalize(path)]
	return ok
}

// Extract implements Extractor. Content is ignored; declarations come from
// the indexed document for the path.
func (e *SCIPExtractor) Extract(_ []byte, path string) (*FileStructure, error) {
	fs := &FileStructure{Path: path}

	doc, ok := e.docs[paths.Normalize(path)]
	if !ok {
		return fs, nil
	}

	// Definition lines per symbol, from occurrences
	defLine := make(map[string]int)
	for _, occ := range doc.Occurrences {
		if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 {
			continue
		}
		if len(occ.Range) > 0 {
			defLine[occ.Symbol] = int(occ.Range[0]) + 1
		}
	}

	for _, sym := range doc.Symbols {
		name, kind := symbolNameAndKind(sym)
		if name == "" {
			continue
		}

		node := DeclarationNode{
			Kind: kind,
			Name: name,
			File: path,
			Line: defLine[sym.Symbol],
		}

		switch kind {
		case KindStruct:
			fs.Structs = append(fs.Structs, node)
		case KindInterface:
			fs.Interfaces = append(fs.Interfaces, node)
		case KindFunction:
			fs.Functions = append(fs.Functions, node)
		}
	}

	return fs, nil
}

// symbolNameAndKind maps a SCIP symbol to our node model. Symbols that do not
// correspond to a declaration kind we track (locals, parameters, packages)
// return an empty name.
func symbolNameAndKind(sym *scippb.SymbolInformation) (string, NodeKind) {
	name := sym.DisplayName

	var suffix scippb.Descriptor_Suffix
	if parsed, err := scippb.ParseSymbol(sym.Symbol); err == nil && len(parsed.Descriptors) > 0 {
		last := parsed.Descriptors[len(parsed.Descriptors)-1]
		suffix = last.Suffix
		if name == "" {
			name = last.Name
		}
	}

	switch sym.Kind {
	case scippb.SymbolInformation_Struct, scippb.SymbolInformation_Class, scippb.SymbolInformation_Enum:
		return name, KindStruct
	case scippb.SymbolInformation_Interface, scippb.SymbolInformation_Trait, scippb.SymbolInformation_Protocol:
		return name, KindInterface
	case scippb.SymbolInformation_Function, scippb.SymbolInformation_Method, scippb.SymbolInformation_Constructor:
		return name, KindFunction
	}

	// Older indexers leave Kind unset; fall back to the descriptor suffix
	switch suffix {
	case scippb.Descriptor_Type:
		return name, KindStruct
	case scippb.Descriptor_Method:
		return name, KindFunction
	}

	return "", KindFunction
}
