package handlers

import (
	"net/http"

	"github.com/phonebook-api/apiserver/internal/services"
	"github.com/phonebook-api/apiserver/types"
)

const paramContactIdentifier = "contactIdentifier"

// ContactCreateRequest is the payload for adding a contact.
type ContactCreateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// ContactListResponse is the paginated list response payload.
type ContactListResponse struct {
	Items []types.Contact `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}

// ContactHandler provides HTTP handlers for an account's contacts.
type ContactHandler struct {
	contactService *services.ContactService
	errs           errorWriter
}

func (h *ContactHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req ContactCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.contactService.Add(r.Context(), pathParam(r, paramIdentifier), requestToken(r), types.Contact{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.errs.protected(w, r, err, "add contact")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.contactService.List(r.Context(), pathParam(r, paramIdentifier), requestToken(r), offset, limit)
	if err != nil {
		h.errs.protected(w, r, err, "list contacts")
		return
	}

	writeJSON(w, http.StatusOK, ContactListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *ContactHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	updated, err := h.contactService.UpdateEmail(
		r.Context(),
		pathParam(r, paramIdentifier),
		requestToken(r),
		query.Get("old"),
		query.Get("new"),
	)
	if err != nil {
		h.errs.protected(w, r, err, "update contact email")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ContactHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	updated, err := h.contactService.UpdatePhone(
		r.Context(),
		pathParam(r, paramIdentifier),
		requestToken(r),
		query.Get("old"),
		query.Get("new"),
	)
	if err != nil {
		h.errs.protected(w, r, err, "update contact phone number")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	err := h.contactService.Delete(
		r.Context(),
		pathParam(r, paramIdentifier),
		requestToken(r),
		pathParam(r, paramContactIdentifier),
	)
	if err != nil {
		h.errs.protected(w, r, err, "delete contact")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "contact deleted"})
}
