/**
 * @description
 * This file contains the HTTP handlers for pixhub's session and transaction
 * endpoints. Handlers parse incoming requests, call the application service,
 * and write the HTTP response. They act as the bridge between the web layer
 * and the business logic layer.
 *
 * @dependencies
 * - internal/app, internal/auth, internal/domain, internal/store: Service
 *   logic, credential verification, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pixhub/pixhub/internal/app"
	"github.com/pixhub/pixhub/internal/auth"
	"github.com/pixhub/pixhub/internal/domain"
)

// TransactionHandlers holds the collaborators the handlers use.
type TransactionHandlers struct {
	service  *app.Service
	verifier *auth.Verifier
}

// NewTransactionHandlers creates a new instance of TransactionHandlers.
func NewTransactionHandlers(service *app.Service, verifier *auth.Verifier) *TransactionHandlers {
	return &TransactionHandlers{service: service, verifier: verifier}
}

// LoginHandler handles POST /sessions: credential verification and token issuance.
func (h *TransactionHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=login outcome=reject reason=invalid_json err=%v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := h.verifier.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("level=warn component=api endpoint=login outcome=reject reason=invalid_credentials")
			h.writeError(w, http.StatusUnauthorized, "Invalid tax id or password")
			return
		}
		log.Printf("level=error component=api endpoint=login outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("level=info component=api endpoint=login outcome=accepted profile_id=%s role=%s", session.Profile.ID, session.Profile.Role)
	h.writeJSON(w, http.StatusOK, session)
}

// CreateTransactionHandler handles POST /transactions.
func (h *TransactionHandlers) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=create_transaction outcome=reject reason=invalid_json err=%v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	profileID, _ := SessionProfileID(r.Context())

	tx, err := h.service.CreateTransfer(r.Context(), req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=create_transaction outcome=failed profile_id=%s sender_key=%s err=%v", profileID, req.Sender.Value, err)
		switch {
		case errors.Is(err, app.ErrRateLimited):
			var limited *app.RateLimitedError
			if errors.As(err, &limited) && limited.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(limited.RetryAfter/time.Second)))
			}
			h.writeError(w, http.StatusTooManyRequests, "Too many transfers; slow down and try again")
			return
		case errors.Is(err, app.ErrInvalidValue),
			errors.Is(err, app.ErrInvalidKeyType),
			errors.Is(err, app.ErrMissingReceiverKey):
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		default:
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	log.Printf("level=info component=api endpoint=create_transaction outcome=%s profile_id=%s transaction_id=%s", tx.Status, profileID, tx.ID)
	h.writeJSON(w, http.StatusCreated, tx)
}

// writeJSON is a helper for writing JSON responses.
func (h *TransactionHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *TransactionHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
