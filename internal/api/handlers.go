package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/hashutil"
	"agencyui/internal/infra/httpx"
	"agencyui/internal/infra/telemetry"
	"agencyui/internal/infra/wireschema"
)

// createAgencyResponse echoes the posted body verbatim as config.
type createAgencyResponse struct {
	Message string          `json:"message"`
	Config  json.RawMessage `json:"config"`
	ID      string          `json:"id"`
}

func (s *Server) components(w http.ResponseWriter, r *http.Request) {
	catalog := s.catalog.Snapshot()
	if notModified(w, r, hashutil.CatalogETag(s.logger, catalog)) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalog)
}

// notModified sets the ETag header and answers 304 when the client already
// holds the current representation.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if etag == "" {
		return false
	}
	quoted := `"` + etag + `"`
	w.Header().Set("ETag", quoted)
	if r.Header.Get("If-None-Match") == quoted {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) createAgency(w http.ResponseWriter, r *http.Request) {
	logger := telemetry.LoggerWithRequest(r.Context(), s.logger)

	body, err := httpx.ReadBody(r)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if err := wireschema.ValidateCreateAgency(body); err != nil {
		logger.Warn("invalid create agency request", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, string(domain.CodeInvalidArgument), err.Error())
		return
	}
	var req domain.CreateAgencyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, string(domain.CodeInvalidArgument), err.Error())
		return
	}

	agency, err := s.store.Create(req.Items)
	if err != nil {
		logger.Error("persist agency failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, string(domain.CodeInternal), "failed to persist agency")
		return
	}
	s.metrics.ObserveAgencyCreated(len(agency.Items))
	logger.Info("agency created",
		telemetry.EventField(telemetry.EventAgencyCreated),
		telemetry.AgencyIDField(agency.ID),
		zap.Int("items", len(agency.Items)),
	)

	httpx.WriteJSON(w, http.StatusOK, createAgencyResponse{
		Message: domain.MessageBackendCreated,
		Config:  json.RawMessage(body),
		ID:      agency.ID,
	})
}

func (s *Server) listAgencies(w http.ResponseWriter, r *http.Request) {
	agencies, err := s.store.List()
	if err != nil {
		telemetry.LoggerWithRequest(r.Context(), s.logger).Error("list agencies failed", zap.Error(err))
		httpx.WriteDomainError(w, err)
		return
	}
	if agencies == nil {
		agencies = []domain.Agency{}
	}
	if notModified(w, r, hashutil.AgenciesETag(s.logger, agencies)) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"agencies": agencies})
}

func (s *Server) getAgency(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	agency, err := s.store.Get(id)
	if err != nil {
		if !errors.Is(err, domain.ErrAgencyNotFound) {
			telemetry.LoggerWithRequest(r.Context(), s.logger).Error("get agency failed", telemetry.AgencyIDField(id), zap.Error(err))
		}
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, agency)
}
