package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phonebook-api/apiserver/internal/services"
	"go.uber.org/zap"
)

// RouterOptions tunes how account routes report errors.
type RouterOptions struct {
	Logger          *zap.Logger
	ConcealNotFound bool
}

// AccountRouter registers account and contact routes on the given router.
func AccountRouter(
	r chi.Router,
	accountService *services.AccountService,
	contactService *services.ContactService,
	opts RouterOptions,
) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	errs := errorWriter{logger: logger, concealNotFound: opts.ConcealNotFound}

	accounts := &AccountHandler{accountService: accountService, errs: errs}
	contacts := &ContactHandler{contactService: contactService, errs: errs}

	r.Post("/", accounts.Register)
	r.Route("/{identifier}", func(r chi.Router) {
		r.Get("/", accounts.GetAccount)
		r.Delete("/", accounts.DeleteAccount)
		r.Put("/email", accounts.UpdateEmail)
		r.Put("/phone", accounts.UpdatePhone)
		r.Put("/premium", accounts.SetPremium)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", contacts.ListContacts)
			r.Post("/", contacts.AddContact)
			r.Put("/email", contacts.UpdateEmail)
			r.Put("/phone", contacts.UpdatePhone)
			r.Delete("/{contactIdentifier}", contacts.DeleteContact)
		})
	})
}

// Healthz reports that the process is serving.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
