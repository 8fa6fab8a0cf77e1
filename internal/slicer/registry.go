// Package slicer extracts C functions as atomic, self-contained translation
// units: a two-pass analysis that first harvests every type, macro, and
// include directive across the source tree, then walks each function body
// resolving its dependencies and required type definitions against that
// global registry.
package slicer

import "strings"

// TypeRegistry accumulates type/macro/include information across every file
// in a source tree so a function in one file can pull in a struct defined in
// another. Populated during the harvest pass, read during extraction.
type TypeRegistry struct {
	types       map[string]string // type name -> full definition text
	typeSources map[string]string // type name -> file it was defined in
	includes    map[string][]string
	macros      map[string]string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:       make(map[string]string),
		typeSources: make(map[string]string),
		includes:    make(map[string][]string),
		macros:      make(map[string]string),
	}
}

// RegisterType records a type definition, preferring a full body over a
// forward declaration and, among two bodies, the longer (more complete) one.
func (r *TypeRegistry) RegisterType(name, definition, sourceFile string) {
	existing, seen := r.types[name]
	shouldInsert := true
	if seen {
		newHasBody := strings.Contains(definition, "{")
		oldHasBody := strings.Contains(existing, "{")
		shouldInsert = (newHasBody && !oldHasBody) || (newHasBody == oldHasBody && len(definition) > len(existing))
	}
	if shouldInsert {
		r.types[name] = definition
		r.typeSources[name] = sourceFile
	}
}

// GetType returns a type's definition text, if known.
func (r *TypeRegistry) GetType(name string) (string, bool) {
	def, ok := r.types[name]
	return def, ok
}

// TypeSource returns the file a type was defined in, if known.
func (r *TypeRegistry) TypeSource(name string) (string, bool) {
	src, ok := r.typeSources[name]
	return src, ok
}

// RegisterInclude records a #include directive found in a file.
func (r *TypeRegistry) RegisterInclude(file, include string) {
	r.includes[file] = append(r.includes[file], include)
}

// Includes returns the #include directives collected for a file.
func (r *TypeRegistry) Includes(file string) []string {
	return r.includes[file]
}

// RegisterMacro records a #define; first occurrence wins, matching the
// reference implementation's behavior for redefinitions across files.
func (r *TypeRegistry) RegisterMacro(name, definition string) {
	if _, exists := r.macros[name]; !exists {
		r.macros[name] = definition
	}
}

// GetMacro returns a macro's definition text, if known. Macros are harvested
// but intentionally never attached to an AtomicUnit's required headers (see
// SPEC_FULL.md's note on the unresolved macro-usage question).
func (r *TypeRegistry) GetMacro(name string) (string, bool) {
	def, ok := r.macros[name]
	return def, ok
}

// TypeCount and MacroCount report registry size for summary logging.
func (r *TypeRegistry) TypeCount() int  { return len(r.types) }
func (r *TypeRegistry) MacroCount() int { return len(r.macros) }
