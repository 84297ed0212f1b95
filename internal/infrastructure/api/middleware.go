package api

import (
	"net/http"
	"strings"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/shopify"
)

// ShopDomainHeader carries the shop an admin request acts on
const ShopDomainHeader = "X-Shopify-Shop-Domain"

// requireInstalledShop resolves the shop of the request and rejects shops without an
// active offline session
func requireInstalledShop(tokens *shopify.SessionTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shop := strings.TrimSpace(r.Header.Get(ShopDomainHeader))
			if shop == "" {
				shop = strings.TrimSpace(r.URL.Query().Get("shop"))
			}
			if shop == "" {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: ShopDomainHeader + " header or shop parameter is required"})
				return
			}

			session, err := tokens.OfflineSession(r.Context(), shop)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if session == nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "shop has not installed the app"})
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithShopDomain(r.Context(), shop)))
		})
	}
}
