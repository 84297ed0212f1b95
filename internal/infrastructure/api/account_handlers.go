package api

import (
	"net/http"

	"qrcode-shopify-layer/internal/application"
)

func registerAccountHandler(svc *application.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input application.RegisterAccountInput
		if err := decodeJSON(w, r, &input); err != nil {
			writeError(w, r, err)
			return
		}

		account, err := svc.Register(r.Context(), input)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"status":  "success",
			"account": account,
		})
	}
}
