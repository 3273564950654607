package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"agencyui/internal/domain"
)

// CatalogETag returns an ETag for a catalog and logs on failure.
func CatalogETag(logger *zap.Logger, catalog domain.Catalog) string {
	return hashWithLogger(logger, "catalog", func() (string, error) {
		return hashJSON(catalog)
	})
}

// AgenciesETag returns an ETag for a list of persisted agencies.
func AgenciesETag(logger *zap.Logger, agencies []domain.Agency) string {
	return hashWithLogger(logger, "agencies", func() (string, error) {
		return hashJSON(agencies)
	})
}

func hashJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func hashWithLogger(logger *zap.Logger, label string, fn func() (string, error)) string {
	etag, err := fn()
	if err != nil {
		if logger != nil {
			logger.Warn(fmt.Sprintf("%s hash failed", label), zap.Error(err))
		}
		return ""
	}
	return etag
}
