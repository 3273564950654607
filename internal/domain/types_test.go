package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogCloneDoesNotAlias(t *testing.T) {
	original := Catalog{Agents: []CatalogItemName{"A1"}, Tools: []CatalogItemName{"T1"}}
	clone := original.Clone()
	clone.Agents[0] = "changed"
	clone.Tools = append(clone.Tools, "T2")

	require.Equal(t, "A1", original.Agents[0])
	require.Len(t, original.Tools, 1)
}

func TestCompositionCloneDoesNotAlias(t *testing.T) {
	original := Composition{{Name: "A1", Kind: KindAgent}}
	clone := original.Clone()
	clone[0].Name = "changed"

	require.Equal(t, "A1", original[0].Name)
}

func TestItemKindKnown(t *testing.T) {
	require.True(t, KindAgent.Known())
	require.True(t, KindTool.Known())
	require.False(t, ItemKind("widget").Known())
	require.False(t, ItemKind("").Known())
}

func TestCatalogNames(t *testing.T) {
	catalog := Catalog{Agents: []CatalogItemName{"A1"}, Tools: []CatalogItemName{"T1", "T2"}}
	require.Equal(t, []CatalogItemName{"A1"}, catalog.Names(KindAgent))
	require.Equal(t, []CatalogItemName{"T1", "T2"}, catalog.Names(KindTool))
	require.Nil(t, catalog.Names("widget"))
}

func TestCreateAgencyRequestWireShape(t *testing.T) {
	req := CreateAgencyRequest{Items: Composition{
		{Name: "A1", Kind: KindAgent},
		{Name: "T1", Kind: KindTool},
	}}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"items":[{"name":"A1","kind":"agent"},{"name":"T1","kind":"tool"}]}`, string(data))
}
