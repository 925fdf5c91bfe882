package openapiscan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"openapiscan"
	"openapiscan/pkg/classindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/instance"
	"openapiscan/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type acmeApp struct{}

func (acmeApp) Resources() []string        { return []string{"example.com/acme/api.UserResource"} }
func (acmeApp) Properties() map[string]any { return nil }

func writeAcme(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/acme\n\ngo 1.25\n",
		"api/api.go": `package api

//openapi:path /users
type UserResource struct{}

//openapi:definition
type API struct{}

type App struct{}

func (App) Resources() []string { return nil }
func (App) Properties() map[string]any { return nil }
`,
		"api/v2/order.go": "package v2\n\n//openapi:path /orders\ntype OrderResource struct{}\n",
		"other/thing.go":  "package other\n\n//openapi:path /thing\ntype Thing struct{}\n",
		"model/model.go":  "package model\n\ntype User struct{}\n\ntype Order struct{}\n\ntype Address struct{}\n",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	return root
}

func TestScan_Module(t *testing.T) {
	root := writeAcme(t)
	factory := instance.NewRegistry()
	require.NoError(t, factory.Register("example.com/acme/api.App", func() domain.Application { return acmeApp{} }))

	res, err := openapiscan.Scan(context.Background(),
		openapiscan.WithRoot(root),
		openapiscan.WithFactory(factory),
		openapiscan.WithResourcePackages("example.com/acme/api"),
		openapiscan.WithResourcePackagesChildren(true),
		openapiscan.WithSchemaPackages("example.com/acme/model"),
		openapiscan.WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)

	require.Equal(t, acmeApp{}, res.Application)
	require.Equal(t, "example.com/acme/api.App", res.ApplicationType.FQN())
	require.Equal(t, []string{
		"example.com/acme/api.API",
		"example.com/acme/api.UserResource",
		"example.com/acme/api/v2.OrderResource",
	}, res.Classes.Names())
	require.Equal(t, 3, res.Schemas.Len())
}

func TestScan_UnregisteredApplicationIsFatal(t *testing.T) {
	root := writeAcme(t)

	_, err := openapiscan.Scan(context.Background(),
		openapiscan.WithRoot(root),
		openapiscan.WithFactory(instance.NewRegistry()),
	)
	require.ErrorIs(t, err, serrors.ErrInstantiation)
}

func TestScan_WithoutApplication(t *testing.T) {
	root := writeAcme(t)

	res, err := openapiscan.Scan(context.Background(),
		openapiscan.WithRoot(root),
		openapiscan.WithFactory(instance.NewRegistry()),
		openapiscan.WithoutApplication(),
	)
	require.NoError(t, err)
	require.Nil(t, res.Application)
	require.NotNil(t, res.ApplicationType)
	require.Equal(t, "example.com/acme/api.App", res.ApplicationType.FQN())
	require.Equal(t, 4, res.Classes.Len())
	require.Zero(t, res.Schemas.Len())
}

func TestScan_WithIndex(t *testing.T) {
	idx := classindex.NewSnapshot("example.com/acme", []domain.TypeRef{
		{Package: "example.com/acme/api", Name: "App", Kind: domain.TypeKindStruct, Methods: []string{"Properties", "Resources"}},
		{Package: "example.com/acme/admin", Name: "AdminApp", Kind: domain.TypeKindStruct, Methods: []string{"Properties", "Resources"}},
	})

	res, err := openapiscan.Scan(context.Background(),
		openapiscan.WithIndex(idx),
		openapiscan.WithFactory(instance.NewRegistry()),
	)
	require.NoError(t, err)
	require.Nil(t, res.Application, "two applications degrade to none")
	require.Nil(t, res.ApplicationType)
}

func TestScan_IndexFailure(t *testing.T) {
	_, err := openapiscan.Scan(context.Background(), openapiscan.WithRoot(t.TempDir()))
	require.ErrorIs(t, err, serrors.ErrIndex)
}
