package slicer

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
	"github.com/standardbeagle/transpile-pipeline/pkg/pathutil"
)

// seenIDs tracks which function ids have already been emitted across the
// whole run, so a second definition with the same name can be flagged
// instead of silently shadowing the first. Both units are still emitted;
// this is a diagnostic, not a dedup pass. root is kept only to render
// diagnostics relative to the source tree instead of as absolute paths.
type seenIDs struct {
	root    string
	sources map[string]string // id -> first source file it was seen in
}

func newSeenIDs(root string) *seenIDs {
	return &seenIDs{root: root, sources: make(map[string]string)}
}

func (s *seenIDs) observe(id, file string) {
	if prior, ok := s.sources[id]; ok {
		debug.LogSlicer("duplicate unit id %q: first seen in %s, also defined in %s",
			id, pathutil.ToRelative(prior, s.root), pathutil.ToRelative(file, s.root))
		return
	}
	s.sources[id] = file
}

// extractFile runs the second pass over a single file: every function
// definition becomes an AtomicUnit, with its direct call dependencies and
// the definitions of every type it mentions pulled from registry.
func extractFile(q *queries, path string, registry *TypeRegistry, seen *seenIDs) ([]unit.AtomicUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parser, err := q.newParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree := parser.Parse(content, nil)
	if tree == nil {
		debug.LogSlicer("failed to parse %s, skipping", path)
		return nil, nil
	}
	defer tree.Close()
	root := tree.RootNode()

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var units []unit.AtomicUnit

	matches := qc.Matches(q.funcs, root, content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			node := c.Node

			name := extractFunctionName(&node, content)
			if name == "" {
				name = "unknown_fn"
			}
			seen.observe(name, path)

			code := string(content[node.StartByte():node.EndByte()])

			deps, usedTypes := extractDependenciesAndTypes(&node, content)

			requiredHeaders := resolveRequiredHeaders(usedTypes, registry)

			units = append(units, unit.New(name, code, deps, requiredHeaders))
		}
	}

	return units, nil
}

// extractFunctionName finds a function_definition's identifier by walking
// its declarator (and, failing that, the whole node) for the first
// identifier.
func extractFunctionName(node *tree_sitter.Node, content []byte) string {
	if node.Kind() == "function_definition" {
		if decl := node.ChildByFieldName("declarator"); decl != nil {
			if name := extractIdentifierText(decl, content); name != "" {
				return name
			}
		}
	}
	return extractIdentifierText(node, content)
}

// extractDependenciesAndTypes walks a function body collecting the called
// function names (call_expression's function field) and referenced type
// names (type_identifier nodes), each deduplicated in first-seen order.
func extractDependenciesAndTypes(node *tree_sitter.Node, content []byte) (deps []string, usedTypes []string) {
	depSeen := make(map[string]struct{})
	typeSeen := make(map[string]struct{})
	walkInfo(node, content, &deps, &usedTypes, depSeen, typeSeen)
	return deps, usedTypes
}

func walkInfo(node *tree_sitter.Node, content []byte, deps, usedTypes *[]string, depSeen, typeSeen map[string]struct{}) {
	switch node.Kind() {
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			text := string(content[fn.StartByte():fn.EndByte()])
			if _, ok := depSeen[text]; !ok {
				depSeen[text] = struct{}{}
				*deps = append(*deps, text)
			}
		}
	case "type_identifier":
		text := string(content[node.StartByte():node.EndByte()])
		if _, ok := typeSeen[text]; !ok {
			typeSeen[text] = struct{}{}
			*usedTypes = append(*usedTypes, text)
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		walkInfo(child, content, deps, usedTypes, depSeen, typeSeen)
	}
}

// resolveRequiredHeaders looks up each used type's full definition in the
// registry, deduplicating by a fast hash of the definition text rather than
// repeated string comparison against the accumulating slice.
func resolveRequiredHeaders(usedTypes []string, registry *TypeRegistry) []string {
	var headers []string
	seenHashes := make(map[uint64]struct{})

	for _, typeName := range usedTypes {
		def, ok := registry.GetType(typeName)
		if !ok {
			continue
		}
		h := xxhash.Sum64String(def)
		if _, dup := seenHashes[h]; dup {
			continue
		}
		seenHashes[h] = struct{}{}
		headers = append(headers, def)
	}

	return headers
}
