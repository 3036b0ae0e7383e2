package handlers

import (
	"net/http"

	"github.com/phonebook-api/apiserver/internal/services"
)

const paramIdentifier = "identifier"

// AccountCreateRequest is the registration payload.
type AccountCreateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// AccountHandler provides HTTP handlers for accounts.
type AccountHandler struct {
	accountService *services.AccountService
	errs           errorWriter
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req AccountCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	registered, err := h.accountService.Register(r.Context(), req.Name, req.Email, req.PhoneNumber)
	if err != nil {
		h.errs.public(w, r, err, "register account")
		return
	}

	writeJSON(w, http.StatusCreated, registered)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.Lookup(r.Context(), pathParam(r, paramIdentifier))
	if err != nil {
		h.errs.public(w, r, err, "fetch account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.UpdateEmail(
		r.Context(),
		pathParam(r, paramIdentifier),
		requestToken(r),
		r.URL.Query().Get("value"),
	)
	if err != nil {
		h.errs.protected(w, r, err, "update account email")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.UpdatePhone(
		r.Context(),
		pathParam(r, paramIdentifier),
		requestToken(r),
		r.URL.Query().Get("value"),
	)
	if err != nil {
		h.errs.protected(w, r, err, "update account phone number")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) SetPremium(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.SetPremium(r.Context(), pathParam(r, paramIdentifier), requestToken(r))
	if err != nil {
		h.errs.protected(w, r, err, "update premium status")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.Delete(r.Context(), pathParam(r, paramIdentifier), requestToken(r)); err != nil {
		h.errs.protected(w, r, err, "delete account")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "account deleted"})
}
