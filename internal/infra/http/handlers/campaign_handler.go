package handlers

import (
	"net/http"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/http/middleware"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

type CampaignHandler struct {
	StatusUC  *usecase.CampaignStatusUseCase
	ResolveUC *usecase.ResolveRoleUseCase
	Provider  usecase.RosterProvider
	Log       *logger.Logger
}

func NewCampaignHandler(
	status *usecase.CampaignStatusUseCase,
	resolve *usecase.ResolveRoleUseCase,
	roster usecase.RosterProvider,
	log *logger.Logger,
) *CampaignHandler {
	return &CampaignHandler{StatusUC: status, ResolveUC: resolve, Provider: roster, Log: log}
}

// Status handles GET /api/campaign/status.
func (h *CampaignHandler) Status(w http.ResponseWriter, r *http.Request) {
	output, err := h.StatusUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordCompletion(output.Percent)
	writeJSON(w, http.StatusOK, output)
}

type RosterResponse struct {
	Employees []entity.Person `json:"employees"`
	HRBoard   struct {
		HR    []entity.Person `json:"hr"`
		Board []entity.Person `json:"board"`
	} `json:"hrBoard"`
}

// Roster handles GET /api/roster.
func (h *CampaignHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Provider.Roster(r.Context())
	if err != nil {
		h.Log.Error("roster unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, usecase.CodeConfiguration, "roster unavailable")
		return
	}

	var resp RosterResponse
	resp.Employees = roster.Employees()
	resp.HRBoard.HR = roster.HR()
	resp.HRBoard.Board = roster.Board()
	writeJSON(w, http.StatusOK, resp)
}

// ResolveRole handles POST /api/resolve-role.
func (h *CampaignHandler) ResolveRole(w http.ResponseWriter, r *http.Request) {
	var input usecase.ResolveRoleInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.ResolveUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}
