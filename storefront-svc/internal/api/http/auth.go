package httpapi

import (
	"encoding/json"
	"net/http"

	"zomatify/storefront-svc/internal/domain"
)

func (h *Handler) authState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Auth.State())
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.AuthResult{Error: "Invalid request body"})
		return
	}

	res := sessionFrom(r).Auth.SignIn(r.Context(), req.Email, req.Password)
	writeAuthResult(w, res, http.StatusUnauthorized)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.AuthResult{Error: "Invalid request body"})
		return
	}

	res := sessionFrom(r).Auth.SignUp(r.Context(), req)
	writeAuthResult(w, res, http.StatusBadRequest)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	res := sessionFrom(r).Auth.SignOut(r.Context())
	writeAuthResult(w, res, http.StatusBadGateway)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	auth := sessionFrom(r).Auth
	if auth.State().User == nil {
		writeJSON(w, http.StatusUnauthorized, domain.AuthResult{Error: "Authentication required"})
		return
	}

	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.AuthResult{Error: "Invalid request body"})
		return
	}

	res := auth.UpdateProfile(r.Context(), patch)
	writeAuthResult(w, res, http.StatusBadRequest)
}

func writeAuthResult(w http.ResponseWriter, res domain.AuthResult, failure int) {
	if res.Success {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, failure, res)
}
