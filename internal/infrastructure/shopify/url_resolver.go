package shopify

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"
)

var variantIDPattern = regexp.MustCompile(`^(?:gid://shopify/ProductVariant/)?(\d+)$`)

var _ ports.URLResolver = (*URLResolver)(nil)

// URLResolver builds the URLs a QR code points to. It holds the public host of the app.
type URLResolver struct {
	hostScheme string
	hostName   string
}

// NewURLResolver creates a resolver for the app served at appURL (scheme and host, e.g. https://qr.example.com)
func NewURLResolver(appURL string) (*URLResolver, error) {
	u, err := url.Parse(strings.TrimSpace(appURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse app url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("app url %q must include scheme and host", appURL)
	}
	return &URLResolver{hostScheme: u.Scheme, hostName: u.Host}, nil
}

// ScanURL is the URL encoded in the QR code image
func (r *URLResolver) ScanURL(id int64) string {
	return fmt.Sprintf("%s://%s/qrcodes/%d/scan", r.hostScheme, r.hostName, id)
}

// ImageURL is where the rendered QR code image is served
func (r *URLResolver) ImageURL(id int64) string {
	return fmt.Sprintf("%s://%s/qrcodes/%d/image", r.hostScheme, r.hostName, id)
}

// Attach sets the derived image and scan URLs of q
func (r *URLResolver) Attach(q *domain.QRCode) {
	q.ImageURL = r.ImageURL(q.ID)
	q.ScanURL = r.ScanURL(q.ID)
}

// ShopURL returns the storefront base URL of shop. A value with a scheme is kept as is;
// a bare shop name or myshopify domain is expanded to https://<name>.myshopify.com.
func ShopURL(shop string) string {
	shop = strings.TrimSpace(shop)
	if strings.Contains(shop, "://") {
		return strings.TrimRight(shop, "/")
	}
	if strings.Contains(shop, ".") && !strings.HasSuffix(shop, ".myshopify.com") {
		return "https://" + strings.TrimRight(shop, "/")
	}
	return goshopify.ShopBaseUrl(shop)
}

// ProductViewURL returns the product page of handle on host. With a discount code the
// customer goes through the discount path first and is redirected to the product.
func ProductViewURL(host, handle, discountCode string) string {
	base := ShopURL(host)
	productPath := "/products/" + url.PathEscape(handle)
	if discountCode == "" {
		return base + productPath
	}

	q := url.Values{}
	q.Set("redirect", productPath)
	return base + "/discount/" + url.PathEscape(discountCode) + "?" + q.Encode()
}

// CheckoutURL returns a cart permalink for quantity units of the variant. A quantity
// below one is treated as one.
func CheckoutURL(host, variantID string, quantity int, discountCode string) (string, error) {
	id, err := NumericVariantID(variantID)
	if err != nil {
		return "", err
	}
	if quantity < 1 {
		quantity = 1
	}

	u := ShopURL(host) + "/cart/" + id + ":" + strconv.Itoa(quantity)
	if discountCode != "" {
		q := url.Values{}
		q.Set("discount", discountCode)
		u += "?" + q.Encode()
	}
	return u, nil
}

// NumericVariantID extracts the trailing numeric id of a ProductVariant global id.
// A bare numeric id is returned unchanged.
func NumericVariantID(gid string) (string, error) {
	m := variantIDPattern.FindStringSubmatch(strings.TrimSpace(gid))
	if m == nil {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedVariantID, gid)
	}
	return m[1], nil
}

// DestinationURL resolves where a scan of q sends the customer
func DestinationURL(q *domain.QRCode) (string, error) {
	switch q.Destination {
	case domain.DestinationProduct:
		return ProductViewURL(q.ShopDomain, q.Handle, q.DiscountCode), nil
	case domain.DestinationCheckout:
		return CheckoutURL(q.ShopDomain, q.VariantID, 1, q.DiscountCode)
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnrecognizedDestination, q.Destination)
}

// DestinationURL resolves where a scan of q sends the customer
func (r *URLResolver) DestinationURL(q *domain.QRCode) (string, error) {
	return DestinationURL(q)
}
