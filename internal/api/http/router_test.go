package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"

	"earnshare-backend/internal/auth"
)

type claimVerifier struct{}

// Tokens shaped "uid" or "uid;seller" resolve to that identity.
func (claimVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebaseauth.Token, error) {
	token := &firebaseauth.Token{UID: idToken, Claims: map[string]interface{}{}}
	if uid, ok := strings.CutSuffix(idToken, ";seller"); ok {
		token.UID = uid
		token.Claims["seller"] = true
	}
	return token, nil
}

func testRouter() http.Handler {
	return NewRouter(Handlers{
		Cart:      &CartHandler{},
		Order:     &OrderHandler{},
		Product:   &ProductHandler{},
		Community: &CommunityHandler{},
		Webhook:   &WebhookHandler{},
		Jobs:      &JobsHandler{},
	}, auth.NewMiddlewareWithVerifier(claimVerifier{}))
}

func TestSellerRoutesRejectBuyerToken(t *testing.T) {
	router := testRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/seller/orders"},
		{http.MethodPost, "/api/seller/orders/42/status"},
		{http.MethodPost, "/api/seller/banners"},
	}
	for _, tc := range requests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer ordinary-buyer")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestSellerRoutesRejectAnonymous(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/seller/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
