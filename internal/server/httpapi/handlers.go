package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wallet/internal/server/models"
)

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth ---

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.auth.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// --- spaces ---

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req createSpaceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}

	space, err := s.spaces.Create(r.Context(), identity.ID, req.Name, req.Description, req.Currency)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSpaceResponse(space))
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	spaces, err := s.spaces.ListForUser(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSpaceResponses(spaces))
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	space, err := s.spaces.GetByID(r.Context(), identity.ID, r.PathValue("spaceId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSpaceResponse(space))
}

func (s *Server) handleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req updateSpaceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := validateSpaceName(req.Name); fields != nil {
		writeValidationError(w, fields)
		return
	}

	space, err := s.spaces.Update(r.Context(), identity.ID, r.PathValue("spaceId"), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSpaceResponse(space))
}

func (s *Server) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	if err := s.spaces.Delete(r.Context(), identity.ID, r.PathValue("spaceId")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- transactions ---

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req createTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}
	date, ok := parseTransactionDate(req.TransactionDate)
	if !ok {
		writeValidationError(w, map[string]string{"transactionDate": "must be a YYYY-MM-DD date"})
		return
	}

	transaction, err := s.transactions.Create(r.Context(), identity.ID, req.SpaceID,
		models.TransactionType(req.Type), req.Amount, date, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(transaction))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	transaction, err := s.transactions.GetByID(r.Context(), identity.ID, r.PathValue("transactionId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

func (s *Server) handleListSpaceTransactions(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	list, err := s.transactions.ListForSpace(r.Context(), identity.ID, r.PathValue("spaceId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(list))
}

// handleSyncTransactions serves the incremental feed: everything of the
// caller's updated strictly after ?since. Without the parameter the feed is
// empty, matching a client that has never synced.
func (s *Server) handleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeValidationError(w, map[string]string{"since": "must be an RFC 3339 timestamp"})
			return
		}
		since = parsed
	}

	list, err := s.transactions.ListForUserSince(r.Context(), identity.ID, since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponses(list))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req updateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}
	date, ok := parseTransactionDate(req.TransactionDate)
	if !ok {
		writeValidationError(w, map[string]string{"transactionDate": "must be a YYYY-MM-DD date"})
		return
	}

	transaction, err := s.transactions.Update(r.Context(), identity.ID, r.PathValue("transactionId"),
		req.Amount, date, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	if err := s.transactions.Delete(r.Context(), identity.ID, r.PathValue("transactionId")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
