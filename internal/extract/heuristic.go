package extract

import (
	"regexp"
	"sort"
	"strings"

	"vibeflow/internal/errors"
)

// Extractor turns file content into a FileStructure. Implementations are
// selected per file by the Registry; the pipeline never depends on a concrete
// extractor.
type Extractor interface {
	// Name identifies the extractor implementation
	Name() string
	// Extract parses content. A malformed file returns an error and must not
	// panic; the caller degrades to an empty node set for that file.
	Extract(content []byte, path string) (*FileStructure, error)
}

// HeuristicExtractor is the default extractor: brace-depth tracking plus
// line-level patterns rather than a full grammar. It is intentionally
// approximate; its output is a structural sketch, not a verified parse.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates the default extractor
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Name implements Extractor
func (e *HeuristicExtractor) Name() string { return "heuristic" }

// Declaration-start patterns. Each pattern captures the declared name and,
// for functions, the parameter list and optional receiver.
var (
	goStructRe    = regexp.MustCompile(`^\s*type\s+([A-Za-z_]\w*)\s+struct\b`)
	goInterfaceRe = regexp.MustCompile(`^\s*type\s+([A-Za-z_]\w*)\s+interface\b`)
	goFuncRe      = regexp.MustCompile(`^\s*func\s+(?:\(\s*\w+\s+\*?([A-Za-z_]\w*)\s*\)\s*)?([A-Za-z_]\w*)\s*\(([^)]*)\)`)

	classRe       = regexp.MustCompile(`^\s*(?:export\s+)?(?:public\s+|private\s+|abstract\s+|final\s+|data\s+)*class\s+([A-Za-z_]\w*)`)
	structRe      = regexp.MustCompile(`^\s*(?:pub(?:\(\w+\))?\s+)?struct\s+([A-Za-z_]\w*)`)
	interfaceRe   = regexp.MustCompile(`^\s*(?:export\s+)?interface\s+([A-Za-z_]\w*)`)
	traitRe       = regexp.MustCompile(`^\s*(?:pub(?:\(\w+\))?\s+)?trait\s+([A-Za-z_]\w*)`)
	jsFuncRe      = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_]\w*)\s*\(([^)]*)\)`)
	pyFuncRe      = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)`)
	rustFuncRe    = regexp.MustCompile(`^\s*(?:pub(?:\(\w+\))?\s+)?(?:async\s+)?fn\s+([A-Za-z_]\w*)\s*\(([^)]*)`)
	methodSigRe   = regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+|static\s+|final\s+|override\s+)+[\w<>\[\],\s]*?\b([A-Za-z_]\w*)\s*\(([^)]*)\)\s*\{`)
	pyClassRe     = regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)`)
)

// Call and table-access patterns scanned over function bodies.
var (
	callRe      = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\(`)
	tableCallRe = regexp.MustCompile("\\.\\s*(?:Table|From|Into)\\s*\\(\\s*[\"'`]([A-Za-z_][\\w.]*)[\"'`]")
	modelCallRe = regexp.MustCompile(`\.\s*Model\s*\(\s*&?([A-Za-z_]\w*)`)

	selectRe = regexp.MustCompile(`(?i)\bselect\s+[^;]*?\bfrom\s+["'` + "`" + `]?([A-Za-z_]\w*)`)
	insertRe = regexp.MustCompile(`(?i)\binsert\s+into\s+["'` + "`" + `]?([A-Za-z_]\w*)`)
	updateRe = regexp.MustCompile(`(?i)\bupdate\s+["'` + "`" + `]?([A-Za-z_]\w*)\s+set\b`)
	deleteRe = regexp.MustCompile(`(?i)\bdelete\s+from\s+["'` + "`" + `]?([A-Za-z_]\w*)`)
)

// controlKeywords are identifier-call matches that are flow control, not calls.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "select": true,
	"return": true, "catch": true, "func": true, "fn": true, "def": true,
	"defer": true, "go": true, "range": true, "elif": true, "else": true,
	"match": true, "except": true, "with": true, "new": true, "print": true,
}

// Extract implements Extractor
func (e *HeuristicExtractor) Extract(content []byte, path string) (*FileStructure, error) {
	fs := &FileStructure{Path: path}

	text := string(content)
	if !bracesBalanced(text) {
		return fs, errors.New(errors.ParseFailure, "unbalanced braces in "+path, nil)
	}

	lines := strings.Split(text, "\n")
	python := strings.HasSuffix(path, ".py")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if name, ok := matchFirst(line, goStructRe, structRe, classRe, pyClassRe); ok {
			body := bodyLines(lines, i, python)
			fs.Structs = append(fs.Structs, DeclarationNode{
				Kind:   KindStruct,
				Name:   name,
				File:   path,
				Line:   i + 1,
				Fields: memberNames(body),
			})
			continue
		}

		if name, ok := matchFirst(line, goInterfaceRe, interfaceRe, traitRe); ok {
			body := bodyLines(lines, i, python)
			fs.Interfaces = append(fs.Interfaces, DeclarationNode{
				Kind:   KindInterface,
				Name:   name,
				File:   path,
				Line:   i + 1,
				Fields: methodNames(body),
			})
			continue
		}

		if fn := matchFunction(line); fn != nil {
			body := bodyLines(lines, i, python)
			bodyText := strings.Join(body, "\n")

			fn.File = path
			fn.Line = i + 1
			fn.CalledIdentifiers = calledIdentifiers(bodyText)

			facts := tableAccess(bodyText, fn.Name, path)
			for _, fact := range facts {
				fn.Tables = appendUnique(fn.Tables, fact.Table)
			}
			fs.DatabaseAccess = append(fs.DatabaseAccess, facts...)
			fs.Functions = append(fs.Functions, *fn)
		}
	}

	return fs, nil
}

// matchFirst returns the first capture of the first matching pattern
func matchFirst(line string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// matchFunction recognizes function-like declarations across languages
func matchFunction(line string) *DeclarationNode {
	if m := goFuncRe.FindStringSubmatch(line); m != nil {
		return &DeclarationNode{Kind: KindFunction, Name: m[2], Receiver: m[1], Fields: paramNames(m[3])}
	}
	if m := jsFuncRe.FindStringSubmatch(line); m != nil {
		return &DeclarationNode{Kind: KindFunction, Name: m[1], Fields: paramNames(m[2])}
	}
	if m := pyFuncRe.FindStringSubmatch(line); m != nil {
		return &DeclarationNode{Kind: KindFunction, Name: m[1], Fields: paramNames(m[2])}
	}
	if m := rustFuncRe.FindStringSubmatch(line); m != nil {
		return &DeclarationNode{Kind: KindFunction, Name: m[1], Fields: paramNames(m[2])}
	}
	if m := methodSigRe.FindStringSubmatch(line); m != nil {
		return &DeclarationNode{Kind: KindFunction, Name: m[1], Fields: paramNames(m[2])}
	}
	return nil
}

// bodyLines returns the lines of the declaration body starting at line start.
// Brace languages track depth; Python falls back to indentation.
func bodyLines(lines []string, start int, python bool) []string {
	if python {
		return indentBody(lines, start)
	}

	depth := 0
	opened := false
	var body []string

	for i := start; i < len(lines); i++ {
		opens, closes := countBraces(lines[i])
		if i > start && opened {
			body = append(body, lines[i])
		}
		depth += opens - closes
		if opens > 0 {
			opened = true
		}
		if opened && depth <= 0 {
			break
		}
		// Declarations with no body; the opening brace may sit on the next line
		if !opened && i > start+1 {
			break
		}
	}

	// Drop the trailing close-brace line
	if n := len(body); n > 0 && strings.TrimSpace(body[n-1]) == "}" {
		body = body[:n-1]
	}
	return body
}

// indentBody collects the indented suite following a Python declaration
func indentBody(lines []string, start int) []string {
	baseIndent := indentOf(lines[start])
	var body []string
	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if indentOf(lines[i]) <= baseIndent {
			break
		}
		body = append(body, lines[i])
	}
	return body
}

func indentOf(line string) int {
	count := 0
	for _, r := range line {
		if r == ' ' {
			count++
		} else if r == '\t' {
			count += 4
		} else {
			break
		}
	}
	return count
}

// countBraces counts braces outside string literals and line comments
func countBraces(line string) (opens, closes int) {
	inString := byte(0)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString != 0 {
			if ch == '\\' {
				i++
			} else if ch == inString {
				inString = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			inString = ch
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return
			}
		case '#':
			return
		case '{':
			opens++
		case '}':
			closes++
		}
	}
	return
}

// bracesBalanced checks whole-file brace balance outside strings/comments
func bracesBalanced(text string) bool {
	opens, closes := 0, 0
	for _, line := range strings.Split(text, "\n") {
		o, c := countBraces(line)
		opens += o
		closes += c
	}
	return opens == closes
}

// memberNames extracts field names from a struct-like body
func memberNames(body []string) []string {
	var fields []string
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "}") || strings.HasPrefix(trimmed, "{") {
			continue
		}
		name := firstIdentifier(trimmed)
		if name != "" {
			fields = appendUnique(fields, name)
		}
	}
	return fields
}

// methodNames extracts method names from an interface-like body
func methodNames(body []string) []string {
	var methods []string
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		idx := strings.Index(trimmed, "(")
		if idx <= 0 {
			continue
		}
		name := firstIdentifier(trimmed[:idx])
		if name != "" {
			methods = appendUnique(methods, name)
		}
	}
	return methods
}

// paramNames extracts parameter names from a raw parameter list
func paramNames(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var params []string
	for _, part := range strings.Split(raw, ",") {
		name := firstIdentifier(strings.TrimSpace(part))
		if name != "" && name != "self" && name != "ctx" {
			params = append(params, name)
		}
	}
	return params
}

var identRe = regexp.MustCompile(`[A-Za-z_]\w*`)

func firstIdentifier(s string) string {
	return identRe.FindString(s)
}

// calledIdentifiers collects name( patterns from a function body
func calledIdentifiers(body string) []string {
	seen := make(map[string]bool)
	var called []string
	for _, m := range callRe.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if controlKeywords[name] || seen[name] {
			continue
		}
		seen[name] = true
		called = append(called, name)
	}
	sort.Strings(called)
	return called
}

// tableAccess derives database access facts from a function body
func tableAccess(body, funcName, path string) []DatabaseAccessFact {
	var facts []DatabaseAccessFact
	seen := make(map[string]bool)

	add := func(table string, op Operation) {
		table = strings.ToLower(table)
		key := table + "|" + string(op)
		if table == "" || seen[key] {
			return
		}
		seen[key] = true
		facts = append(facts, DatabaseAccessFact{
			Table:     table,
			Operation: op,
			File:      path,
			Function:  funcName,
		})
	}

	// ORM-style accesses: operation inferred from the enclosing function name
	op := inferOperation(funcName)
	for _, m := range tableCallRe.FindAllStringSubmatch(body, -1) {
		add(m[1], op)
	}
	for _, m := range modelCallRe.FindAllStringSubmatch(body, -1) {
		add(toSnake(m[1]), op)
	}

	// Literal SQL statements carry their own operation
	for _, m := range selectRe.FindAllStringSubmatch(body, -1) {
		add(m[1], OpSelect)
	}
	for _, m := range insertRe.FindAllStringSubmatch(body, -1) {
		add(m[1], OpInsert)
	}
	for _, m := range updateRe.FindAllStringSubmatch(body, -1) {
		add(m[1], OpUpdate)
	}
	for _, m := range deleteRe.FindAllStringSubmatch(body, -1) {
		add(m[1], OpDelete)
	}

	return facts
}

// inferOperation guesses the database operation from a function name
func inferOperation(funcName string) Operation {
	lower := strings.ToLower(funcName)
	switch {
	case containsAny(lower, "create", "insert", "add", "save", "register"):
		return OpInsert
	case containsAny(lower, "update", "edit", "modify", "patch"):
		return OpUpdate
	case containsAny(lower, "delete", "remove", "destroy"):
		return OpDelete
	default:
		return OpSelect
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// toSnake converts CamelCase to snake_case for model-derived table names
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
