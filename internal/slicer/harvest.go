package slicer

import (
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
)

// harvestFile runs the first pass over a single file: every struct/union/enum
// specifier and typedef is registered in the shared TypeRegistry, along with
// its #include directives and #define macros. Parse failures are logged and
// skipped rather than aborting the whole run.
func harvestFile(q *queries, path string, registry *TypeRegistry) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	parser, err := q.newParser()
	if err != nil {
		return err
	}
	defer parser.Close()

	tree := parser.Parse(content, nil)
	if tree == nil {
		debug.LogSlicer("failed to parse %s, skipping", path)
		return nil
	}
	defer tree.Close()
	root := tree.RootNode()

	harvestIncludes(q, root, content, path, registry)
	harvestTypes(q, root, content, path, registry)
	harvestMacros(q, root, content, registry)

	return nil
}

func harvestIncludes(q *queries, root *tree_sitter.Node, content []byte, path string, registry *TypeRegistry) {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(q.includes, root, content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			text := string(content[c.Node.StartByte():c.Node.EndByte()])
			registry.RegisterInclude(path, text)
		}
	}
}

func harvestTypes(q *queries, root *tree_sitter.Node, content []byte, path string, registry *TypeRegistry) {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(q.types, root, content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			node := c.Node
			name := extractTypeName(&node, content)
			if name == "" {
				continue
			}
			def := string(content[node.StartByte():node.EndByte()])
			registry.RegisterType(name, def, path)
		}
	}
}

func harvestMacros(q *queries, root *tree_sitter.Node, content []byte, registry *TypeRegistry) {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(q.macros, root, content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		var name, def string
		for _, c := range match.Captures {
			node := c.Node
			switch node.Kind() {
			case "identifier":
				name = string(content[node.StartByte():node.EndByte()])
			case "preproc_def":
				def = string(content[node.StartByte():node.EndByte()])
			}
		}
		if name != "" && def != "" {
			registry.RegisterMacro(name, def)
		}
	}
}

// extractTypeName pulls the declared name out of a struct/union/enum
// specifier or typedef node.
func extractTypeName(node *tree_sitter.Node, content []byte) string {
	switch node.Kind() {
	case "struct_specifier", "union_specifier", "enum_specifier":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return string(content[nameNode.StartByte():nameNode.EndByte()])
		}
		return ""
	case "type_definition":
		if declarator := node.ChildByFieldName("declarator"); declarator != nil {
			return extractIdentifierText(declarator, content)
		}
		return ""
	default:
		return ""
	}
}

// extractIdentifierText recursively descends a subtree looking for the first
// identifier or type_identifier node, unwrapping pointer, array, and function
// declarators, which each wrap the identifier differently.
func extractIdentifierText(node *tree_sitter.Node, content []byte) string {
	if node.Kind() == "identifier" || node.Kind() == "type_identifier" {
		return string(content[node.StartByte():node.EndByte()])
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if text := extractIdentifierText(child, content); text != "" {
			return text
		}
	}
	return ""
}
