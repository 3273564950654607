package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agencyui/internal/domain"
)

func TestCatalogETagTracksContentAndOrder(t *testing.T) {
	logger := zap.NewNop()
	a := domain.Catalog{Agents: []string{"A1", "A2"}, Tools: []string{"T1"}}
	b := domain.Catalog{Agents: []string{"A2", "A1"}, Tools: []string{"T1"}}

	etag := CatalogETag(logger, a)
	assert.Len(t, etag, 64)
	assert.Equal(t, etag, CatalogETag(logger, a.Clone()))
	assert.NotEqual(t, etag, CatalogETag(logger, b))
}

func TestAgenciesETagDiffersByList(t *testing.T) {
	one := []domain.Agency{{ID: "1"}}
	two := []domain.Agency{{ID: "1"}, {ID: "2"}}
	assert.NotEqual(t, AgenciesETag(nil, one), AgenciesETag(nil, two))
}
