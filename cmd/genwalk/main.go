// Command genwalk reflects over the ast package's node declarations and
// prints the childrenOf table that traverse/children.go hand-maintains.
//
// It is adapted from the teacher's cmd/gen-visitor, which reflects over
// pkg/ast to emit a generated Walk/Visitor dispatcher for the DWScript AST.
// The shape of the job is identical here -- find every node struct, work out
// which of its fields are themselves nodes (or slices of nodes), and emit one
// switch case per node kind -- but the output target differs: rather than
// writing a visitor_generated.go that the rest of the tree depends on, genwalk
// prints a children.go-shaped source listing to stdout that a
// maintainer diffs against traverse/children.go by hand after adding a new
// node kind to ast/*.go. traverse.childrenOf stays hand-maintained -- see its
// doc comment -- because several of its cases encode traversal-order and
// nil-skipping decisions (e.g. only descending into MemberExpression.Property
// when Computed, treating GotoStatement as childless) that aren't recoverable
// from field types alone; genwalk's output is the starting point a human
// edits, not a drop-in replacement.
//
// Usage:
//
//	genwalk [ast-dir]   // ast-dir defaults to "ast"
package main

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strings"
)

// fieldKind classifies how a struct field relates to the Node graph.
type fieldKind int

const (
	fieldScalar fieldKind = iota
	fieldNode
	fieldNodeSlice
	fieldNodePtrOptional
)

type nodeField struct {
	name  string
	kind  fieldKind
	order int
}

type nodeType struct {
	name   string
	fields []nodeField
}

// nodeSuffixes mirrors the teacher's isNodeType convention: a field whose
// type name ends in one of these is assumed to implement ast.Node.
var nodeSuffixes = []string{
	"Expression", "Statement", "Declaration", "Declarator", "Literal",
	"Pattern", "Clause", "Case", "Property", "Body",
}

// knownNodeTypes covers the node type names that don't end in one of
// nodeSuffixes: Program, Identifier and Super.
var knownNodeTypes = map[string]bool{
	"Program":    true,
	"Identifier": true,
	"Super":      true,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "genwalk:", err)
		os.Exit(1)
	}
}

func run() error {
	astDir := "ast"
	if len(os.Args) > 1 {
		astDir = os.Args[1]
	}

	nodes, err := collectNodeTypes(astDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", astDir, err)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no node structs found under %s", astDir)
	}

	src := generateChildrenTable(nodes)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		// Emit the unformatted source anyway so a maintainer can see what
		// genwalk was trying to produce and fix the generator.
		fmt.Fprintln(os.Stderr, "genwalk: go/format failed, printing raw output:", err)
		formatted = []byte(src)
	}

	os.Stdout.Write(formatted)
	return nil
}

func collectNodeTypes(astDir string) ([]nodeType, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, astDir, func(fi os.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, "_generated.go") &&
			name != "visitor.go"
	}, 0)
	if err != nil {
		return nil, err
	}

	var nodes []nodeType
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			ast.Inspect(file, func(n ast.Node) bool {
				ts, ok := n.(*ast.TypeSpec)
				if !ok {
					return true
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return true
				}
				if !isTrackedNodeStruct(ts.Name.Name, st) {
					return true
				}
				nodes = append(nodes, nodeType{
					name:   ts.Name.Name,
					fields: extractFields(st),
				})
				return true
			})
		}
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].name < nodes[j].name })
	return nodes, nil
}

// isTrackedNodeStruct decides whether a struct declaration is a node worth
// emitting a case for: either its name is in knownNodeTypes, it carries one
// of nodeSuffixes, or it embeds BaseNode (the same embedding every ast.Node
// in this package uses in place of the teacher's TypedExpressionBase /
// TypedStatementBase split).
func isTrackedNodeStruct(name string, st *ast.StructType) bool {
	if knownNodeTypes[name] || hasNodeSuffix(name) {
		return true
	}
	for _, f := range st.Fields.List {
		if len(f.Names) != 0 {
			continue // not an embedded field
		}
		if ident, ok := f.Type.(*ast.Ident); ok && ident.Name == "BaseNode" {
			return true
		}
	}
	return false
}

func hasNodeSuffix(name string) bool {
	for _, s := range nodeSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// extractFields reads ast:"skip" / ast:"order:N" struct tags the same way
// the teacher's cmd/gen-visitor does, classifying each remaining field as a
// single node, an optional (pointer) node, or a slice of nodes. Fields whose
// type doesn't look like a Node are left out of the walk entirely, matching
// the teacher's behaviour of skipping scalar fields like Operator or Name.
func extractFields(st *ast.StructType) []nodeField {
	var fields []nodeField
	order := 0
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			continue // embedded BaseNode etc, not a child
		}
		tag := fieldTag(f)
		if tag["skip"] == "true" {
			continue
		}
		fieldOrder := order
		if v, ok := tag["order"]; ok {
			fmt.Sscanf(v, "%d", &fieldOrder)
		}
		order++

		kind, isNode := classifyFieldType(f.Type)
		if !isNode {
			continue
		}
		for _, name := range f.Names {
			fields = append(fields, nodeField{name: name.Name, kind: kind, order: fieldOrder})
		}
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].order < fields[j].order })
	return fields
}

// fieldTag parses a raw struct tag string of the form `ast:"skip,order:3"`
// into a lookup map. It only understands the two keys genwalk cares about.
func fieldTag(f *ast.Field) map[string]string {
	out := map[string]string{}
	if f.Tag == nil {
		return out
	}
	raw := strings.Trim(f.Tag.Value, "`")
	const prefix = `ast:"`
	idx := strings.Index(raw, prefix)
	if idx < 0 {
		return out
	}
	raw = raw[idx+len(prefix):]
	end := strings.Index(raw, `"`)
	if end >= 0 {
		raw = raw[:end]
	}
	for _, part := range strings.Split(raw, ",") {
		if part == "skip" {
			out["skip"] = "true"
			continue
		}
		if strings.HasPrefix(part, "order:") {
			out["order"] = strings.TrimPrefix(part, "order:")
		}
	}
	return out
}

func classifyFieldType(expr ast.Expr) (fieldKind, bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		if name, ok := typeName(t.X); ok && isNodeTypeName(name) {
			return fieldNodePtrOptional, true
		}
	case *ast.ArrayType:
		if name, ok := typeName(t.Elt); ok && isNodeTypeName(name) {
			return fieldNodeSlice, true
		}
		if star, ok := t.Elt.(*ast.StarExpr); ok {
			if name, ok := typeName(star.X); ok && isNodeTypeName(name) {
				return fieldNodeSlice, true
			}
		}
	case *ast.Ident:
		if isNodeTypeName(t.Name) {
			return fieldNode, true
		}
	}
	return fieldScalar, false
}

func typeName(expr ast.Expr) (string, bool) {
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name, true
	}
	return "", false
}

func isNodeTypeName(name string) bool {
	switch name {
	case "Node", "Expression", "Statement", "Pattern":
		return true
	}
	return knownNodeTypes[name] || hasNodeSuffix(name)
}

// generateChildrenTable renders a childrenOf switch body. It intentionally
// stays close to traverse/children.go's hand-written shape (one case per
// struct, appending single/optional/slice fields in field order) so the two
// are easy to diff against each other.
func generateChildrenTable(nodes []nodeType) string {
	var b strings.Builder
	b.WriteString("// Code generated by cmd/genwalk from reflecting over ast/*.go. Review by\n")
	b.WriteString("// hand before merging into traverse/children.go -- see genwalk's doc comment.\n\n")
	b.WriteString("package traverse\n\n")
	b.WriteString(`import "github.com/jsobf/jsobf/ast"` + "\n\n")
	b.WriteString("func childrenOfGenerated(n ast.Node) []ast.Node {\n")
	b.WriteString("\tswitch v := n.(type) {\n")

	for _, nd := range nodes {
		if len(nd.fields) == 0 {
			b.WriteString(fmt.Sprintf("\tcase *ast.%s:\n\t\t_ = v\n\t\treturn nil\n", nd.name))
			continue
		}
		b.WriteString(fmt.Sprintf("\tcase *ast.%s:\n", nd.name))
		b.WriteString("\t\tout := []ast.Node{}\n")
		for _, f := range nd.fields {
			switch f.kind {
			case fieldNode:
				b.WriteString(fmt.Sprintf("\t\tout = append(out, v.%s)\n", f.name))
			case fieldNodePtrOptional:
				b.WriteString(fmt.Sprintf("\t\tif v.%s != nil {\n\t\t\tout = append(out, v.%s)\n\t\t}\n", f.name, f.name))
			case fieldNodeSlice:
				b.WriteString(fmt.Sprintf("\t\tfor _, c := range v.%s {\n\t\t\tif c != nil {\n\t\t\t\tout = append(out, c)\n\t\t\t}\n\t\t}\n", f.name))
			}
		}
		b.WriteString("\t\treturn out\n")
	}

	b.WriteString("\tdefault:\n\t\treturn nil\n\t}\n}\n")
	return b.String()
}
