package goindex_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"openapiscan/pkg/classindex/goindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// writeModule creates a module tree under a temporary directory.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	return root
}

var acmeModule = map[string]string{ //nolint: gochecknoglobals
	"go.mod": "module example.com/acme\n\ngo 1.25\n",
	"api/user.go": `package api

// UserResource serves users.
//
//openapi:path /users
type UserResource struct{}

//openapi:definition
type API struct{}

//openapi:definition
//openapi:path /
type Root struct{}

type App struct{}

func (a *App) Resources() []string { return nil }

func (App) Properties() map[string]any { return nil }

type hidden struct{}

//openapi:path /hidden
type unexportedResource struct{}
`,
	"api/v2/order.go": `package v2

type (
	//openapi:path /orders
	OrderResource struct{}

	Status int
)

type Alias = OrderResource

type Contract interface {
	Resources() []string
	Properties() map[string]any
}
`,
	"api/user_test.go": `package api

//openapi:path /ignored
type TestResource struct{}
`,
	"model/user.go":        "package model\n\ntype User struct{}\n\ntype Role string\n",
	"model/order/order.go": "package order\n\ntype Order struct{}\n",
	"generic/box.go":       "package generic\n\ntype Box[T any] struct{ v T }\n\nfunc (b *Box[T]) Resources() []string { return nil }\n\nfunc (b Box[T]) Properties() map[string]any { return nil }\n",
	"vendor/ext/ext.go":    "package ext\n\n//openapi:path /vendored\ntype Vendored struct{}\n",
	"testdata/fixture.go":  "package fixture\n\ntype Fixture struct{}\n",
	"_scratch/scratch.go":  "package scratch\n\ntype Scratch struct{}\n",
	"tools/go.mod":         "module example.com/acme/tools\n\ngo 1.25\n",
	"tools/tool.go":        "package tools\n\ntype Tool struct{}\n",
	"unknown/directive.go": "package unknown\n\n//openapi:deprecated\ntype Old struct{}\n",
	"custom/prefix.go":     "package custom\n\n//rest:path /custom\ntype Custom struct{}\n",
}

func names(types []domain.TypeRef) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.FQN())
	}

	return out
}

func TestLoad_Module(t *testing.T) {
	root := writeModule(t, acmeModule)

	snap, err := goindex.Load(context.Background(), goindex.Options{Root: root})
	require.NoError(t, err)
	require.Equal(t, "example.com/acme", snap.Module)

	all := names(snap.Types())
	require.Contains(t, all, "example.com/acme/api.UserResource")
	require.Contains(t, all, "example.com/acme/api/v2.Status")
	require.Contains(t, all, "example.com/acme/model/order.Order")
	require.NotContains(t, all, "example.com/acme/api.TestResource")
	require.NotContains(t, all, "example.com/acme/api.hidden")
	require.NotContains(t, all, "example.com/acme/vendor/ext.Vendored")
	require.NotContains(t, all, "example.com/acme/testdata.Fixture")
	require.NotContains(t, all, "example.com/acme/_scratch.Scratch")
	require.NotContains(t, all, "example.com/acme/tools.Tool")
}

func TestLoad_Markers(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.NoError(t, err)

	paths, err := snap.AnnotatedWith(ctx, domain.MarkerPath, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"example.com/acme/api.Root",
		"example.com/acme/api.UserResource",
		"example.com/acme/api/v2.OrderResource",
	}, names(paths))
	require.Equal(t, "/users", paths[1].Markers[domain.MarkerPath])
	require.Equal(t, "api/user.go", paths[1].File)

	defs, err := snap.AnnotatedWith(ctx, domain.MarkerDefinition, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/api.API", "example.com/acme/api.Root"}, names(defs))
}

func TestLoad_Kinds(t *testing.T) {
	root := writeModule(t, acmeModule)

	snap, err := goindex.Load(context.Background(), goindex.Options{Root: root})
	require.NoError(t, err)

	kinds := map[string]domain.TypeKind{}
	for _, ty := range snap.Types() {
		kinds[ty.FQN()] = ty.Kind
	}
	require.Equal(t, domain.TypeKindStruct, kinds["example.com/acme/api.App"])
	require.Equal(t, domain.TypeKindAlias, kinds["example.com/acme/api/v2.Alias"])
	require.Equal(t, domain.TypeKindInterface, kinds["example.com/acme/api/v2.Contract"])
	require.Equal(t, domain.TypeKindOther, kinds["example.com/acme/model.Role"])
}

func TestLoad_SubTypesOf(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.NoError(t, err)

	apps, err := snap.SubTypesOf(ctx, domain.ApplicationContract, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/api.App", "example.com/acme/generic.Box"}, names(apps))

	scoped, err := snap.SubTypesOf(ctx, domain.ApplicationContract, []string{"example.com/acme/api"})
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/api.App"}, names(scoped))
}

func TestLoad_TypesUnder(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.NoError(t, err)

	got, err := snap.TypesUnder(ctx, "example.com/acme/model")
	require.NoError(t, err)
	require.Equal(t, []string{
		"example.com/acme/model.Role",
		"example.com/acme/model.User",
		"example.com/acme/model/order.Order",
	}, names(got))
}

func TestLoad_IncludeUnexported(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root, IncludeUnexported: true})
	require.NoError(t, err)
	require.Contains(t, names(snap.Types()), "example.com/acme/api.hidden")

	paths, err := snap.AnnotatedWith(ctx, domain.MarkerPath, []string{"example.com/acme/api"})
	require.NoError(t, err)
	require.Contains(t, names(paths), "example.com/acme/api.unexportedResource")
}

func TestLoad_DirectivePrefix(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root, DirectivePrefix: "rest"})
	require.NoError(t, err)

	paths, err := snap.AnnotatedWith(ctx, domain.MarkerPath, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/custom.Custom"}, names(paths))
}

func TestLoad_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := goindex.Load(ctx, goindex.Options{Root: t.TempDir()})
	require.ErrorIs(t, err, serrors.ErrIndex)

	broken := writeModule(t, map[string]string{
		"go.mod":   "module example.com/broken\n",
		"bad/x.go": "package bad\n\ntype X struct{\n",
	})
	_, err = goindex.Load(ctx, goindex.Options{Root: broken})
	require.ErrorIs(t, err, serrors.ErrIndex)
	require.ErrorContains(t, err, "x.go")

	noModule := writeModule(t, map[string]string{"go.mod": "go 1.25\n"})
	_, err = goindex.Load(ctx, goindex.Options{Root: noModule})
	require.ErrorIs(t, err, serrors.ErrIndex)
}

func TestLoad_Cancelled(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_BuildsOnce(t *testing.T) {
	root := writeModule(t, acmeModule)
	ctx := context.Background()
	idx := goindex.New(goindex.Options{Root: root})

	first, err := idx.Snapshot(ctx)
	require.NoError(t, err)

	// later source edits are not visible to the same indexer
	require.NoError(t, os.WriteFile(filepath.Join(root, "model", "extra.go"),
		[]byte("package model\n\ntype Extra struct{}\n"), 0o600))

	got, err := idx.TypesUnder(ctx, "example.com/acme/model")
	require.NoError(t, err)
	require.Len(t, got, 3)

	second, err := idx.Snapshot(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestIndexer_PropagatesBuildError(t *testing.T) {
	idx := goindex.New(goindex.Options{Root: t.TempDir()})
	ctx := context.Background()

	_, err := idx.SubTypesOf(ctx, domain.ApplicationContract, nil)
	require.ErrorIs(t, err, serrors.ErrIndex)
	_, err = idx.AnnotatedWith(ctx, domain.MarkerPath, nil)
	require.ErrorIs(t, err, serrors.ErrIndex)
	_, err = idx.TypesUnder(ctx, "example.com")
	require.ErrorIs(t, err, serrors.ErrIndex)
}

func TestIndexer_RetriesAfterCancellation(t *testing.T) {
	root := writeModule(t, acmeModule)
	idx := goindex.New(goindex.Options{Root: root})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := idx.Snapshot(ctx)
	require.ErrorIs(t, err, context.Canceled)

	snap, err := idx.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, "example.com/acme", snap.Module)
}

func TestLoad_EmbeddedMethods(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod": "module example.com/emb\n\ngo 1.25\n",
		"base/base.go": `package base

type Base struct{}

func (Base) Resources() []string { return nil }

func (*Base) Properties() map[string]any { return nil }

type Resourcer interface {
	Resources() []string
}
`,
		"api/app.go": `package api

import (
	"bytes"

	b "example.com/emb/base"
	"example.com/emb/base"
)

type App struct {
	base.Base
	Name string
}

type Aliased struct {
	*b.Base
}

type core struct{}

func (core) Resources() []string { return nil }

func (*core) Properties() map[string]any { return nil }

type Local struct {
	core
}

type Half struct {
	base.Resourcer
}

type External struct {
	bytes.Buffer
}

type Funcs struct {
	Resources  func() []string
	Properties func() map[string]any
}

type Contract interface {
	base.Resourcer
	Properties() map[string]any
}

type Loop struct{ *Pool }

type Pool struct{ *Loop }
`,
	})
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.NoError(t, err)

	apps, err := snap.SubTypesOf(ctx, domain.ApplicationContract, []string{"example.com/emb/api"})
	require.NoError(t, err)
	require.Equal(t, []string{
		"example.com/emb/api.Aliased",
		"example.com/emb/api.App",
		"example.com/emb/api.Local",
	}, names(apps))

	byName := map[string]domain.TypeRef{}
	for _, ref := range snap.Types() {
		byName[ref.FQN()] = ref
	}
	require.Equal(t, []string{"Resources"}, byName["example.com/emb/api.Half"].Methods)
	require.Empty(t, byName["example.com/emb/api.External"].Methods)
	require.Empty(t, byName["example.com/emb/api.Funcs"].Methods)
	require.Equal(t, []string{"Properties", "Resources"}, byName["example.com/emb/api.Contract"].Methods)
	require.Empty(t, byName["example.com/emb/api.Loop"].Methods)
}

func TestLoad_DirectiveArgumentAfterTab(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":     "module example.com/tab\n\ngo 1.25\n",
		"api/api.go": "package api\n\n//openapi:path\t/users\ntype Users struct{}\n",
	})
	ctx := context.Background()

	snap, err := goindex.Load(ctx, goindex.Options{Root: root})
	require.NoError(t, err)

	paths, err := snap.AnnotatedWith(ctx, domain.MarkerPath, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, "/users", paths[0].Markers[domain.MarkerPath])
}

func TestLoad_BuildConstraints(t *testing.T) {
	root := writeModule(t, map[string]string{
		"go.mod":            "module example.com/tags\n\ngo 1.25\n",
		"api/api.go":        "package api\n\ntype Users struct{}\n",
		"api/gen.go":        "//go:build ignore\n\npackage main\n\ntype Generator struct{}\n",
		"api/api_plan9.go":  "package api\n\ntype Plan9Only struct{}\n",
		"api/api_custom.go": "//go:build customtag\n\npackage api\n\ntype Tagged struct{}\n",
	})

	snap, err := goindex.Load(context.Background(), goindex.Options{Root: root})
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/tags/api.Users"}, names(snap.Types()))
}
