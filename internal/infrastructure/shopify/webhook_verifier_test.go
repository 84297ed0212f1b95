package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier(t *testing.T) {
	body := `{"domain":"shop.myshopify.com"}`
	v := NewWebhookVerifier("key", "secret")

	req := httptest.NewRequest("POST", "/api/webhooks", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign("secret", body))
	assert.True(t, v.Verify(req))

	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))

	req = httptest.NewRequest("POST", "/api/webhooks", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign("other", body))
	assert.False(t, v.Verify(req))

	req = httptest.NewRequest("POST", "/api/webhooks", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign("", body))
	assert.False(t, NewWebhookVerifier("key", "").Verify(req))
}
