package handlers

import (
	"net/http"

	"github.com/xavierca1/signature-campaign/internal/infra/http/middleware"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

type SignatureHandler struct {
	SaveUC  *usecase.SaveSignatureUseCase
	ListUC  *usecase.ListSignaturesUseCase
	ClearUC *usecase.ClearSignaturesUseCase
	Log     *logger.Logger
}

func NewSignatureHandler(
	save *usecase.SaveSignatureUseCase,
	list *usecase.ListSignaturesUseCase,
	clearAll *usecase.ClearSignaturesUseCase,
	log *logger.Logger,
) *SignatureHandler {
	return &SignatureHandler{SaveUC: save, ListUC: list, ClearUC: clearAll, Log: log}
}

// Save handles POST /api/save-signature.
func (h *SignatureHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveSignatureInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.SaveUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}

	middleware.RecordSignatureSaved(output.IsNew)
	middleware.RecordCompletion(output.Campaign.Percent)
	writeJSON(w, http.StatusOK, output)
}

// List handles GET /api/signatures.
func (h *SignatureHandler) List(w http.ResponseWriter, r *http.Request) {
	signatures, err := h.ListUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, signatures)
}

// Clear handles DELETE /api/clear-signatures.
func (h *SignatureHandler) Clear(w http.ResponseWriter, r *http.Request) {
	output, err := h.ClearUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}

	middleware.RecordSignaturesCleared(output.DeletedCount)
	middleware.RecordCompletion(0)
	writeJSON(w, http.StatusOK, output)
}
