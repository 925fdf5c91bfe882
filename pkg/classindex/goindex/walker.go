package goindex

import (
	"context"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"openapiscan/pkg/domain"

	"github.com/go-faster/errors"
)

// walker collects type declarations and their methods across a module tree.
type walker struct {
	root   string
	module string
	opts   Options
	log    *slog.Logger

	fset  *token.FileSet
	types []domain.TypeRef
	// methods maps "<import path>.<type name>" to declared method names.
	methods map[string][]string
	// embeds maps a type FQN to the fields and interfaces it embeds.
	embeds map[string][]embed
	// names maps the import paths of the module to their package names.
	names map[string]string
}

// embed is an embedded type as written in source. qualifier is empty for
// types of the embedding package.
type embed struct {
	qualifier string
	name      string
	imports   []*ast.ImportSpec
}

func (w *walker) walk(ctx context.Context) error {
	w.fset = token.NewFileSet()

	return filepath.WalkDir(w.root, func(dir string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if dir != w.root {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				w.log.Debug("skipping nested module", "dir", dir)

				return filepath.SkipDir
			}
		}

		return w.parseDir(dir)
	})
}

// skipDir reports directories the go tool ignores when matching packages.
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func (w *walker) importPath(dir string) string {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || rel == "." {
		return w.module
	}

	return path.Join(w.module, filepath.ToSlash(rel))
}

func (w *walker) parseDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "read %s", dir)
	}

	pkg := w.importPath(dir)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		// build tags and GOOS/GOARCH file suffixes, as the go tool applies them
		if ok, err := build.Default.MatchFile(dir, name); err != nil {
			return errors.Wrapf(err, "match %s", name)
		} else if !ok {
			w.log.Debug("skipping excluded file", "file", name)

			continue
		}

		file := filepath.Join(dir, name)
		f, err := parser.ParseFile(w.fset, file, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return errors.Wrapf(err, "parse %s", file)
		}

		rel, _ := filepath.Rel(w.root, file)
		w.inspect(pkg, filepath.ToSlash(rel), f)
	}

	return nil
}

func (w *walker) inspect(pkg, file string, f *ast.File) {
	w.names[pkg] = f.Name.Name
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				// a lone "type X ..." keeps its comment on the GenDecl
				if doc == nil && !decl.Lparen.IsValid() {
					doc = decl.Doc
				}
				w.addType(pkg, file, ts, doc, f.Imports)
			}
		case *ast.FuncDecl:
			if decl.Recv == nil || len(decl.Recv.List) == 0 {
				continue
			}
			if recv := receiverName(decl.Recv.List[0].Type); recv != "" {
				key := pkg + "." + recv
				w.methods[key] = append(w.methods[key], decl.Name.Name)
			}
		}
	}
}

// addType records ts. Methods and embeddings are recorded for unexported
// types too, since exported types can be built on them.
func (w *walker) addType(pkg, file string, ts *ast.TypeSpec, doc *ast.CommentGroup, imports []*ast.ImportSpec) {
	name := ts.Name.Name
	fqn := pkg + "." + name

	var (
		fields      []*ast.Field
		isInterface bool
	)
	switch t := ts.Type.(type) {
	case *ast.StructType:
		fields = t.Fields.List
	case *ast.InterfaceType:
		fields, isInterface = t.Methods.List, true
	}
	for _, field := range fields {
		if len(field.Names) > 0 {
			// named struct fields are not methods, even of func type
			if isInterface {
				for _, n := range field.Names {
					w.methods[fqn] = append(w.methods[fqn], n.Name)
				}
			}

			continue
		}
		if e, ok := embedOf(field.Type); ok {
			e.imports = imports
			w.embeds[fqn] = append(w.embeds[fqn], e)
		}
	}

	if !w.opts.IncludeUnexported && !ast.IsExported(name) {
		return
	}

	w.types = append(w.types, domain.TypeRef{
		Package: pkg,
		Name:    name,
		Kind:    kindOf(ts),
		File:    file,
		Markers: w.markers(doc, fqn),
	})
}

// embedOf returns the type named by an embedded field, unwrapping pointers
// and type arguments. Interface unions and literal types yield false.
func embedOf(expr ast.Expr) (embed, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return embed{name: e.Name}, true
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			return embed{qualifier: x.Name, name: e.Sel.Name}, true
		}
	case *ast.StarExpr:
		return embedOf(e.X)
	case *ast.IndexExpr:
		return embedOf(e.X)
	case *ast.IndexListExpr:
		return embedOf(e.X)
	}

	return embed{}, false
}

// markers extracts "//<prefix>:<marker> [argument]" directives from doc.
func (w *walker) markers(doc *ast.CommentGroup, fqn string) map[domain.Marker]string {
	if doc == nil {
		return nil
	}

	prefix := "//" + w.opts.DirectivePrefix + ":"
	var out map[domain.Marker]string
	for _, c := range doc.List {
		directive, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}
		name, arg := directive, ""
		if i := strings.IndexFunc(directive, unicode.IsSpace); i >= 0 {
			name, arg = directive[:i], directive[i:]
		}
		marker := domain.Marker(name)
		if !slices.Contains(domain.Markers(), marker) {
			w.log.Warn("unknown directive", "type", fqn, "directive", c.Text)

			continue
		}
		if out == nil {
			out = make(map[domain.Marker]string)
		}
		out[marker] = strings.TrimSpace(arg)
	}

	return out
}

// collect attaches gathered methods to their types, including the methods
// promoted from embedded types declared in the module. Embedded types from
// other modules are not resolved.
func (w *walker) collect() []domain.TypeRef {
	for i, t := range w.types {
		var methods []string
		w.methodSet(t.Package, t.FQN(), map[string]bool{}, &methods)
		slices.Sort(methods)
		w.types[i].Methods = slices.Compact(methods)
	}

	return w.types
}

func (w *walker) methodSet(pkg, fqn string, seen map[string]bool, out *[]string) {
	if seen[fqn] {
		return
	}
	seen[fqn] = true

	*out = append(*out, w.methods[fqn]...)
	for _, e := range w.embeds[fqn] {
		if target, ok := w.resolve(pkg, e); ok {
			w.methodSet(target, target+"."+e.name, seen, out)
		}
	}
}

// resolve returns the import path of the package declaring e, as seen from pkg.
func (w *walker) resolve(pkg string, e embed) (string, bool) {
	if e.qualifier == "" {
		return pkg, true
	}

	for _, imp := range e.imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name, known := w.names[p]
		if !known {
			continue
		}
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == e.qualifier {
			return p, true
		}
	}

	return "", false
}

func kindOf(ts *ast.TypeSpec) domain.TypeKind {
	if ts.Assign.IsValid() {
		return domain.TypeKindAlias
	}
	switch ts.Type.(type) {
	case *ast.StructType:
		return domain.TypeKindStruct
	case *ast.InterfaceType:
		return domain.TypeKindInterface
	default:
		return domain.TypeKindOther
	}
}

// receiverName returns the base type name of a method receiver, unwrapping
// pointers and type parameter lists.
func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.ParenExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}
