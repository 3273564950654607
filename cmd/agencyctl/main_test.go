package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"agencyui/internal/api"
	"agencyui/internal/domain"
	"agencyui/internal/infra/agencystore"
	"agencyui/internal/infra/catalog"
)

type staticCatalog struct{ catalog domain.Catalog }

func (s staticCatalog) Snapshot() domain.Catalog { return s.catalog.Clone() }

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := agencystore.Open(filepath.Join(t.TempDir(), "agencies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	server := api.NewServer(api.Options{
		Catalog: staticCatalog{catalog: catalog.Defaults()},
		Store:   store,
	})
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestComponentsText(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "--backend", srv.URL, "components")
	require.NoError(t, err)
	assert.Contains(t, out, "agents (3)")
	assert.Contains(t, out, "  Agent1")
	assert.Contains(t, out, "tools (3)")
}

func TestComponentsYAML(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "--backend", srv.URL, "-o", "yaml", "components")
	require.NoError(t, err)

	var decoded domain.Catalog
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"Agent1", "Agent2", "Agent3"}, decoded.Agents)
}

func TestCreateThenGetAgency(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "--backend", srv.URL, "--json", "create", "agent:Agent1", "tool:Tool2", "agent:Agent1")
	require.NoError(t, err)

	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
		Config  struct {
			Items domain.Composition `json:"items"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, domain.MessageBackendCreated, created.Message)
	require.Len(t, created.Config.Items, 3)
	assert.Equal(t, domain.CompositionEntry{Name: "Tool2", Kind: domain.KindTool}, created.Config.Items[1])

	out, err = run(t, "--backend", srv.URL, "agencies", "get", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "id="+created.ID)
	assert.Contains(t, out, "items=3")

	out, err = run(t, "--backend", srv.URL, "agencies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)
	assert.Contains(t, out, "agent:Agent1 tool:Tool2 agent:Agent1")
}

func TestGetMissingAgencyExitsNotFound(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, "--backend", srv.URL, "agencies", "get", "missing")
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitNotFound, exitErr.code)
}

func TestUnreachableBackendExitsUnavailable(t *testing.T) {
	srv := newBackend(t)
	url := srv.URL
	srv.Close()

	_, err := run(t, "--backend", url, "components")
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUnavailable, exitErr.code)
}

func TestParseItems(t *testing.T) {
	items, err := parseItems([]string{"Agent:Planner", "tool: Search "})
	require.NoError(t, err)
	assert.Equal(t, domain.Composition{
		{Name: "Planner", Kind: domain.KindAgent},
		{Name: "Search", Kind: domain.KindTool},
	}, items)

	for _, bad := range []string{"agent", ":x", "tool:"} {
		_, err := parseItems([]string{bad})
		assert.Error(t, err, bad)
	}
	_, err = parseItems(nil)
	assert.Error(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "--output", "xml", "components")
	var exitErr exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitUsage, exitErr.code)
	assert.True(t, strings.Contains(exitErr.message, "xml"))
}
