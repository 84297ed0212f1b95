package domain

import "context"

type contextKey string

const shopDomainKey contextKey = "shop_domain"

// WithShopDomain stores the shop the request acts on
func WithShopDomain(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopDomainKey, shop)
}

// GetShopDomainFromContext returns the shop stored by WithShopDomain, or ""
func GetShopDomainFromContext(ctx context.Context) string {
	shop, _ := ctx.Value(shopDomainKey).(string)
	return shop
}
