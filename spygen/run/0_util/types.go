// Package astutil renders DST type expressions back to Go source.
package astutil

import (
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/dave/dst"
)

// IsBuiltin reports whether name is a predeclared identifier such as int or
// error.
func IsBuiltin(name string) bool {
	return types.Universe.Lookup(name) != nil
}

// PackageRefs returns the package names used as qualifiers in expr, sorted
// and without duplicates.
func PackageRefs(exprs ...dst.Expr) []string {
	seen := make(map[string]bool)

	for _, expr := range exprs {
		if expr == nil {
			continue
		}

		dst.Inspect(expr, func(node dst.Node) bool {
			sel, ok := node.(*dst.SelectorExpr)
			if !ok {
				return true
			}

			if ident, ok := sel.X.(*dst.Ident); ok {
				seen[ident.Name] = true
			}

			return false
		})
	}

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}

	sort.Strings(refs)

	return refs
}

// TypeString renders expr as Go source. When qualifier is set, exported
// identifiers declared in the expression's own package are prefixed with it,
// so the type can be named from another package.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST type expressions
func TypeString(expr dst.Expr, qualifier string) string {
	switch typed := expr.(type) {
	case nil:
		return ""
	case *dst.Ident:
		if qualifier != "" && token.IsExported(typed.Name) && !IsBuiltin(typed.Name) {
			return qualifier + "." + typed.Name
		}

		return typed.Name
	case *dst.BasicLit:
		return typed.Value
	case *dst.SelectorExpr:
		return TypeString(typed.X, "") + "." + typed.Sel.Name
	case *dst.StarExpr:
		return "*" + TypeString(typed.X, qualifier)
	case *dst.ArrayType:
		if typed.Len != nil {
			return "[" + TypeString(typed.Len, "") + "]" + TypeString(typed.Elt, qualifier)
		}

		return "[]" + TypeString(typed.Elt, qualifier)
	case *dst.MapType:
		return "map[" + TypeString(typed.Key, qualifier) + "]" + TypeString(typed.Value, qualifier)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return "chan<- " + TypeString(typed.Value, qualifier)
		case dst.RECV:
			return "<-chan " + TypeString(typed.Value, qualifier)
		default:
			return "chan " + TypeString(typed.Value, qualifier)
		}
	case *dst.Ellipsis:
		return "..." + TypeString(typed.Elt, qualifier)
	case *dst.FuncType:
		return "func" + Signature(typed, qualifier)
	case *dst.InterfaceType:
		return interfaceString(typed, qualifier)
	case *dst.StructType:
		return structString(typed, qualifier)
	case *dst.IndexExpr:
		return TypeString(typed.X, qualifier) + "[" + TypeString(typed.Index, qualifier) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typed.Indices))
		for i, index := range typed.Indices {
			indices[i] = TypeString(index, qualifier)
		}

		return TypeString(typed.X, qualifier) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + TypeString(typed.X, qualifier) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Signature renders a function's parameters and results, without the func
// keyword or parameter names.
func Signature(funcType *dst.FuncType, qualifier string) string {
	params := FieldTypes(funcType.Params, qualifier)
	results := FieldTypes(funcType.Results, qualifier)

	out := "(" + strings.Join(params, ", ") + ")"

	switch len(results) {
	case 0:
		return out
	case 1:
		return out + " " + results[0]
	default:
		return out + " (" + strings.Join(results, ", ") + ")"
	}
}

// FieldTypes lists one type string per field name, so "a, b int" gives two
// entries.
func FieldTypes(fields *dst.FieldList, qualifier string) []string {
	if fields == nil {
		return nil
	}

	var out []string

	for _, field := range fields.List {
		typ := TypeString(field.Type, qualifier)

		for range max(len(field.Names), 1) {
			out = append(out, typ)
		}
	}

	return out
}

func interfaceString(iface *dst.InterfaceType, qualifier string) string {
	if iface.Methods == nil || len(iface.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(iface.Methods.List))

	for _, field := range iface.Methods.List {
		funcType, isMethod := field.Type.(*dst.FuncType)
		if isMethod && len(field.Names) > 0 {
			parts = append(parts, field.Names[0].Name+Signature(funcType, qualifier))
			continue
		}

		parts = append(parts, TypeString(field.Type, qualifier))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

func structString(st *dst.StructType, qualifier string) string {
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return "struct{}"
	}

	parts := make([]string, 0, len(st.Fields.List))

	for _, field := range st.Fields.List {
		typ := TypeString(field.Type, qualifier)
		if len(field.Names) == 0 {
			parts = append(parts, typ)
			continue
		}

		names := make([]string, len(field.Names))
		for i, name := range field.Names {
			names[i] = name.Name
		}

		parts = append(parts, strings.Join(names, ", ")+" "+typ)
	}

	return "struct{ " + strings.Join(parts, "; ") + " }"
}
