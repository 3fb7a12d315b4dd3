/**
 * @description
 * HTTP handlers for the fraud-review surface: listing transactions by status
 * and applying analyst verdicts. These routes sit behind the analyst role.
 */

package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pixhub/pixhub/internal/app"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
)

// ListByStatusHandler handles GET /transactions/status/{status}.
func (h *TransactionHandlers) ListByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := domain.TransactionStatus(chi.URLParam(r, "status"))

	transactions, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		if errors.Is(err, app.ErrInvalidStatus) {
			h.writeError(w, http.StatusBadRequest, "Unknown transaction status")
			return
		}
		log.Printf("level=error component=api endpoint=list_by_status outcome=failed status=%s err=%v", status, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

// ApproveHandler handles POST /transactions/{id}/approve.
func (h *TransactionHandlers) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, domain.VerdictApprove)
}

// RejectHandler handles POST /transactions/{id}/reject.
func (h *TransactionHandlers) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, domain.VerdictReject)
}

func (h *TransactionHandlers) review(w http.ResponseWriter, r *http.Request, verdict domain.ReviewVerdict) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	tx, err := h.service.Review(r.Context(), id, verdict)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTransactionNotFound):
			h.writeError(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, store.ErrStatusConflict):
			h.writeError(w, http.StatusConflict, "Transaction is no longer pending review")
		default:
			log.Printf("level=error component=api endpoint=review outcome=failed transaction_id=%s verdict=%s err=%v", id, verdict, err)
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	log.Printf("level=info component=api endpoint=review outcome=accepted transaction_id=%s verdict=%s", id, verdict)
	h.writeJSON(w, http.StatusOK, tx)
}
