//go:build cgo

package extract

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"vibeflow/internal/errors"
)

// TreeSitterExtractor extracts Go declarations from a real parse tree instead
// of the brace heuristic. Output contract is identical to the heuristic
// extractor; only the parse is different.
type TreeSitterExtractor struct {
	lang *sitter.Language
}

// NewTreeSitterExtractor creates the Go tree-sitter extractor
func NewTreeSitterExtractor() *TreeSitterExtractor {
	return &TreeSitterExtractor{lang: golang.GetLanguage()}
}

// Name implements Extractor
func (e *TreeSitterExtractor) Name() string { return "treesitter" }

// Extract implements Extractor
func (e *TreeSitterExtractor) Extract(content []byte, path string) (*FileStructure, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return &FileStructure{Path: path}, errors.New(errors.ParseFailure, "tree-sitter parse failed for "+path, err)
	}
	defer tree.Close()

	fs := &FileStructure{Path: path}
	root := tree.RootNode()

	for i := uint32(0); i < root.ChildCount(); i++ {
		child := root.Child(int(i))
		if child == nil {
			continue
		}

		switch child.Type() {
		case "type_declaration":
			e.extractTypes(child, content, path, fs)
		case "function_declaration", "method_declaration":
			e.extractFunction(child, content, path, fs)
		}
	}

	return fs, nil
}

// extractTypes handles one type_declaration, which may declare several specs
func (e *TreeSitterExtractor) extractTypes(decl *sitter.Node, source []byte, path string, fs *FileStructure) {
	for i := uint32(0); i < decl.ChildCount(); i++ {
		spec := decl.Child(int(i))
		if spec == nil || spec.Type() != "type_spec" {
			continue
		}

		nameNode := spec.ChildByFieldName("name")
		typeNode := spec.ChildByFieldName("type")
		if nameNode == nil || typeNode == nil {
			continue
		}

		name := text(nameNode, source)
		line := int(spec.StartPoint().Row) + 1

		switch typeNode.Type() {
		case "struct_type":
			fs.Structs = append(fs.Structs, DeclarationNode{
				Kind:   KindStruct,
				Name:   name,
				File:   path,
				Line:   line,
				Fields: fieldIdentifiers(typeNode, source),
			})
		case "interface_type":
			fs.Interfaces = append(fs.Interfaces, DeclarationNode{
				Kind:   KindInterface,
				Name:   name,
				File:   path,
				Line:   line,
				Fields: methodNames(strings.Split(text(typeNode, source), "\n")),
			})
		}
	}
}

// extractFunction handles function_declaration and method_declaration nodes
func (e *TreeSitterExtractor) extractFunction(fn *sitter.Node, source []byte, path string, fs *FileStructure) {
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	node := DeclarationNode{
		Kind: KindFunction,
		Name: text(nameNode, source),
		File: path,
		Line: int(fn.StartPoint().Row) + 1,
	}

	if params := fn.ChildByFieldName("parameters"); params != nil {
		node.Fields = parameterIdentifiers(params, source)
	}
	if recv := fn.ChildByFieldName("receiver"); recv != nil {
		node.Receiver = receiverType(recv, source)
	}

	if body := fn.ChildByFieldName("body"); body != nil {
		bodyText := text(body, source)
		node.CalledIdentifiers = callTargets(body, source)

		facts := tableAccess(bodyText, node.Name, path)
		for _, fact := range facts {
			node.Tables = appendUnique(node.Tables, fact.Table)
		}
		fs.DatabaseAccess = append(fs.DatabaseAccess, facts...)
	}

	fs.Functions = append(fs.Functions, node)
}

// fieldIdentifiers collects field names from a struct_type node
func fieldIdentifiers(structType *sitter.Node, source []byte) []string {
	var fields []string
	walk(structType, func(n *sitter.Node) {
		if n.Type() == "field_identifier" {
			fields = appendUnique(fields, text(n, source))
		}
	})
	return fields
}

// parameterIdentifiers collects parameter names from a parameter_list node
func parameterIdentifiers(params *sitter.Node, source []byte) []string {
	var names []string
	for i := uint32(0); i < params.ChildCount(); i++ {
		param := params.Child(int(i))
		if param == nil || param.Type() != "parameter_declaration" {
			continue
		}
		if nameNode := param.ChildByFieldName("name"); nameNode != nil {
			name := text(nameNode, source)
			if name != "ctx" {
				names = append(names, name)
			}
		}
	}
	return names
}

// receiverType returns the receiver's base type name
func receiverType(recv *sitter.Node, source []byte) string {
	var typeName string
	walk(recv, func(n *sitter.Node) {
		if typeName == "" && n.Type() == "type_identifier" {
			typeName = text(n, source)
		}
	})
	return typeName
}

// callTargets collects the called identifier of every call_expression
func callTargets(body *sitter.Node, source []byte) []string {
	seen := make(map[string]bool)
	var called []string

	walk(body, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fnNode := n.ChildByFieldName("function")
		if fnNode == nil {
			return
		}

		var name string
		switch fnNode.Type() {
		case "identifier":
			name = text(fnNode, source)
		case "selector_expression":
			if field := fnNode.ChildByFieldName("field"); field != nil {
				name = text(field, source)
			}
		}
		if name == "" || controlKeywords[name] || seen[name] {
			return
		}
		seen[name] = true
		called = append(called, name)
	})

	// Match the heuristic extractor's sorted order
	sort.Strings(called)
	return called
}

func walk(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for i := uint32(0); i < node.ChildCount(); i++ {
		walk(node.Child(int(i)), visit)
	}
}

func text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
