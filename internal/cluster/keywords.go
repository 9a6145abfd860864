// Package cluster implements the four independent clustering strategies that
// turn the extracted node set into module candidates.
package cluster

import (
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// defaultKeywords is the curated domain vocabulary. Order matters: it is the
// match priority when a node's tokens hit several keywords.
var defaultKeywords = []string{
	"user", "account", "auth", "session", "token", "profile", "member",
	"product", "catalog", "inventory", "stock", "price", "pricing",
	"order", "cart", "checkout", "payment", "invoice", "billing", "refund",
	"shipping", "delivery", "address", "customer", "vendor", "supplier",
	"notification", "email", "message", "event", "webhook", "queue",
	"report", "metric", "audit", "admin", "permission", "role",
	"search", "filter", "export", "import", "upload", "download",
	"config", "setting", "tenant", "organization", "project", "workspace",
}

// genericWords are excluded from cluster naming; they describe code shape,
// not domain.
var genericWords = map[string]bool{
	"type": true, "types": true, "model": true, "models": true,
	"data": true, "info": true, "item": true, "items": true,
	"base": true, "main": true, "test": true, "tests": true,
	"util": true, "utils": true, "common": true, "helper": true,
	"helpers": true, "impl": true, "value": true, "values": true,
	"object": true, "objects": true, "interface": true, "struct": true,
	"func": true, "function": true, "handler": true, "service": true,
	"manager": true, "index": true, "internal": true, "string": true,
}

// Vocabulary is the domain keyword list used by semantic grouping and
// cluster naming.
type Vocabulary struct {
	keywords []string
	lookup   map[string]bool
}

// DefaultVocabulary returns the built-in domain vocabulary
func DefaultVocabulary() *Vocabulary {
	return newVocabulary(defaultKeywords)
}

func newVocabulary(keywords []string) *Vocabulary {
	v := &Vocabulary{lookup: make(map[string]bool, len(keywords))}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || v.lookup[kw] {
			continue
		}
		v.keywords = append(v.keywords, kw)
		v.lookup[kw] = true
	}
	return v
}

// vocabularyFile is the on-disk TOML shape of a vocabulary extension
type vocabularyFile struct {
	Keywords []string `toml:"keywords"`
}

// LoadVocabulary extends the default vocabulary with keywords from a TOML
// file. Project keywords take match priority over the built-ins.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file vocabularyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return newVocabulary(append(file.Keywords, defaultKeywords...)), nil
}

// Contains reports whether a token is a vocabulary keyword
func (v *Vocabulary) Contains(token string) bool {
	return v.lookup[token]
}

// Match returns the first of the node's tokens that is a vocabulary keyword
func (v *Vocabulary) Match(tokens []string) (string, bool) {
	for _, t := range tokens {
		if v.lookup[t] {
			return t, true
		}
	}
	return "", false
}

// IsGeneric reports whether a word is too generic to name a cluster
func IsGeneric(word string) bool {
	return genericWords[word]
}

// Tokenize splits an identifier or filename into lowercase tokens on
// camelCase, snake_case, kebab-case and dot boundaries.
func Tokenize(name string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			tokens = append(tokens, strings.ToLower(current.String()))
		}
		current.Reset()
	}

	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == '/' || r == ' ':
			flush()
		case unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()

	return tokens
}

// TokenJaccard computes Jaccard similarity over two token slices
func TokenJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}

	intersection := 0
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		if setB[t] {
			continue
		}
		setB[t] = true
		if setA[t] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ChooseName picks a cluster name from weighted token frequencies: the
// heaviest token longer than 3 characters that is not generic; ties break
// lexicographically. Falls back to fallback when nothing qualifies.
func ChooseName(weights map[string]float64, fallback string) string {
	best := ""
	bestWeight := 0.0

	tokens := make([]string, 0, len(weights))
	for t := range weights {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	for _, t := range tokens {
		if len(t) <= 3 || IsGeneric(t) {
			continue
		}
		if weights[t] > bestWeight {
			best = t
			bestWeight = weights[t]
		}
	}

	if best == "" {
		return fallback
	}
	return best
}
