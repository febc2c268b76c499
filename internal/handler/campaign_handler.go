// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appErrors "github.com/AWD-Projects/xianna-campaign-service/internal/errors"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
	"github.com/AWD-Projects/xianna-campaign-service/internal/repository"
	"github.com/AWD-Projects/xianna-campaign-service/internal/service"
)

// CampaignHandler exposes composition and preview over HTTP for the admin
// console. Template CRUD, auth and pagination live in the console backend,
// not here.
type CampaignHandler struct {
	Service       *service.CampaignService
	RecipientRepo repository.RecipientRepositoryInterface
	Log           zerolog.Logger
}

type composeRequest struct {
	Template     model.Template         `json:"template"`
	Selection    model.ContentSelection `json:"content_selection"`
	RecipientIDs []string               `json:"recipient_ids"`
	Channel      model.Channel          `json:"channel"`
}

type previewRequest struct {
	Template  model.Template         `json:"template"`
	Selection model.ContentSelection `json:"content_selection"`
	Channel   model.Channel          `json:"channel"`
}

// ComposeCampaign handles POST /campaigns/compose.
func (h *CampaignHandler) ComposeCampaign(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	recipients, err := h.RecipientRepo.GetByIDs(r.Context(), req.RecipientIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.Service.ComposeCampaign(r.Context(), &req.Template, req.Selection, recipients, req.Channel)
	if err != nil {
		if report != nil {
			// Dispatch completed; only persistence failed. Surface the
			// report so the operator does not retry and double-send.
			h.Log.Warn().Err(err).Str("campaign_id", report.CampaignID).Msg("compose persisted with errors")
			writeJSON(w, http.StatusOK, report)
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// PreviewResolvedTemplate handles POST /campaigns/preview.
func (h *CampaignHandler) PreviewResolvedTemplate(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resolved, err := h.Service.PreviewResolvedTemplate(r.Context(), &req.Template, req.Selection, req.Channel)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

// GetCampaignReport handles GET /campaigns/{id}/report.
func (h *CampaignHandler) GetCampaignReport(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	report, err := h.Service.GetCampaignReport(r.Context(), campaignID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Healthz handles GET /healthz.
func (h *CampaignHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	var quotaErr *appErrors.ErrQuotaExceeded
	if errors.As(err, &quotaErr) {
		return http.StatusConflict
	}

	var notFound *appErrors.ErrCampaignNotFound
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	var (
		unknownChannel *appErrors.ErrUnknownChannel
		notApplicable  *appErrors.ErrChannelNotApplicable
		unknownToken   *appErrors.ErrUnknownPlaceholder
		subjectToken   *appErrors.ErrContentTokenInSubject
	)
	if errors.Is(err, appErrors.ErrNoRecipients) ||
		errors.Is(err, appErrors.ErrEmptyTemplate) ||
		errors.As(err, &unknownChannel) ||
		errors.As(err, &notApplicable) ||
		errors.As(err, &unknownToken) ||
		errors.As(err, &subjectToken) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
