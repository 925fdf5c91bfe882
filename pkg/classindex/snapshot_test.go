package classindex_test

import (
	"context"
	"testing"

	"openapiscan/pkg/classindex"
	"openapiscan/pkg/domain"

	"github.com/stretchr/testify/require"
)

func fqns(types []domain.TypeRef) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.FQN())
	}

	return out
}

func testSnapshot() *classindex.Snapshot {
	return classindex.NewSnapshot("example.com/acme", []domain.TypeRef{
		{
			Package: "example.com/acme/api", Name: "UserResource", Kind: domain.TypeKindStruct,
			Markers: map[domain.Marker]string{domain.MarkerPath: "/users"},
		},
		{
			Package: "example.com/acme/api/v2", Name: "OrderResource", Kind: domain.TypeKindStruct,
			Markers: map[domain.Marker]string{domain.MarkerPath: "/orders"},
		},
		{
			Package: "example.com/acme/api", Name: "API", Kind: domain.TypeKindStruct,
			Markers: map[domain.Marker]string{domain.MarkerDefinition: ""},
		},
		{
			Package: "example.com/acme/api", Name: "App", Kind: domain.TypeKindStruct,
			Methods: []string{"Properties", "Resources"},
		},
		{
			Package: "example.com/acme/api", Name: "AppContract", Kind: domain.TypeKindInterface,
			Methods: []string{"Properties", "Resources"},
		},
		{Package: "example.com/acme/model", Name: "User", Kind: domain.TypeKindStruct},
		{Package: "example.com/acme/model/order", Name: "Order", Kind: domain.TypeKindStruct},
		{Package: "example.com/acme/models", Name: "Legacy", Kind: domain.TypeKindStruct},
		{
			Package: "example.com/other", Name: "Thing", Kind: domain.TypeKindStruct,
			Markers: map[domain.Marker]string{domain.MarkerPath: "/thing"},
		},
	})
}

func TestSnapshot_AnnotatedWith(t *testing.T) {
	s := testSnapshot()

	all, err := s.AnnotatedWith(context.Background(), domain.MarkerPath, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"example.com/acme/api.UserResource",
		"example.com/acme/api/v2.OrderResource",
		"example.com/other.Thing",
	}, fqns(all))

	scoped, err := s.AnnotatedWith(context.Background(), domain.MarkerPath, []string{"example.com/acme"})
	require.NoError(t, err)
	require.Len(t, scoped, 2)

	defs, err := s.AnnotatedWith(context.Background(), domain.MarkerDefinition, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/api.API"}, fqns(defs))
}

func TestSnapshot_SubTypesOf(t *testing.T) {
	s := testSnapshot()

	apps, err := s.SubTypesOf(context.Background(), domain.ApplicationContract, []string{"example.com/acme/api"})
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/api.App"}, fqns(apps))

	none, err := s.SubTypesOf(context.Background(), domain.ApplicationContract, []string{"example.com/other"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSnapshot_TypesUnder(t *testing.T) {
	s := testSnapshot()

	got, err := s.TypesUnder(context.Background(), "example.com/acme/model")
	require.NoError(t, err)
	require.Equal(t, []string{"example.com/acme/model.User", "example.com/acme/model/order.Order"}, fqns(got))

	got, err = s.TypesUnder(context.Background(), "example.com/nothing")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSnapshot_Accessors(t *testing.T) {
	s := testSnapshot()

	require.Equal(t, "example.com/acme", s.Module)
	require.Equal(t, 9, s.Len())
	require.Contains(t, s.Packages(), "example.com/acme/model/order")

	types := s.Types()
	types[0].Name = "Mutated"
	require.NotEqual(t, "Mutated", s.Types()[0].Name)
}
