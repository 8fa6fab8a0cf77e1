package slicer

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// queries bundles the tree-sitter queries the slicer runs against a parsed
// C file. The grammar and queries are built once and reused across every
// file; a fresh Parser is created for each file via newParser.
type queries struct {
	language *tree_sitter.Language
	types    *tree_sitter.Query // struct/union/enum specifiers, typedefs
	includes *tree_sitter.Query // #include directives
	macros   *tree_sitter.Query // #define directives
	funcs    *tree_sitter.Query // function definitions
}

const (
	typeQueryStr = `
        (struct_specifier) @type
        (union_specifier) @type
        (enum_specifier) @type
        (type_definition) @type
    `
	includeQueryStr = `(preproc_include path: (_) @path)`
	macroQueryStr   = `(preproc_def name: (identifier) @name) @def`
	funcQueryStr    = `(function_definition) @func`
)

// newQueries loads the C grammar and compiles every query the slicer needs.
func newQueries() (*queries, error) {
	languagePtr := tree_sitter_c.Language()
	language := tree_sitter.NewLanguage(languagePtr)

	typeQuery, err := tree_sitter.NewQuery(language, typeQueryStr)
	if err != nil {
		return nil, fmt.Errorf("compiling type query: %w", err)
	}
	includeQuery, err := tree_sitter.NewQuery(language, includeQueryStr)
	if err != nil {
		return nil, fmt.Errorf("compiling include query: %w", err)
	}
	macroQuery, err := tree_sitter.NewQuery(language, macroQueryStr)
	if err != nil {
		return nil, fmt.Errorf("compiling macro query: %w", err)
	}
	funcQuery, err := tree_sitter.NewQuery(language, funcQueryStr)
	if err != nil {
		return nil, fmt.Errorf("compiling function query: %w", err)
	}

	return &queries{
		language: language,
		types:    typeQuery,
		includes: includeQuery,
		macros:   macroQuery,
		funcs:    funcQuery,
	}, nil
}

// newParser returns a fresh parser bound to the C grammar. Each harvest and
// extract call creates and closes its own parser; the compiled queries above
// are read-only and shared.
func (q *queries) newParser() (*tree_sitter.Parser, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(q.language); err != nil {
		return nil, fmt.Errorf("loading C grammar: %w", err)
	}
	return parser, nil
}

func (q *queries) Close() {
	if q.types != nil {
		q.types.Close()
	}
	if q.includes != nil {
		q.includes.Close()
	}
	if q.macros != nil {
		q.macros.Close()
	}
	if q.funcs != nil {
		q.funcs.Close()
	}
}
