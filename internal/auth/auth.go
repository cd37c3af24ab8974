// Package auth verifies Firebase ID tokens on incoming requests and
// stashes the caller's identity on the request context.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"earnshare-backend/internal/logger"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	sellerKey contextKey = "seller"
)

// sellerClaim is the Firebase custom claim marking seller accounts.
const sellerClaim = "seller"

// TokenVerifier verifies a bearer token and returns its decoded claims.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Middleware authenticates requests against Firebase.
type Middleware struct {
	verifier TokenVerifier
}

// NewMiddleware initializes the Firebase app and its auth client.
func NewMiddleware(ctx context.Context, projectID, credentialsFile string) (*Middleware, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &Middleware{verifier: client}, nil
}

// NewMiddlewareWithVerifier wires a custom verifier, used by tests.
func NewMiddlewareWithVerifier(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireUser rejects requests without a valid bearer token.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "missing bearer token")
			return
		}
		idToken := strings.TrimPrefix(header, "Bearer ")

		token, err := m.verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			logger.Warn("token verification failed", "error", err)
			writeUnauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, token.UID)
		seller, _ := token.Claims[sellerClaim].(bool)
		ctx = context.WithValue(ctx, sellerKey, seller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSeller rejects callers whose token lacks the seller claim. It
// runs after RequireUser, which stashes the claim on the context.
func (m *Middleware) RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsSeller(r.Context()) {
			userID, _ := UserID(r.Context())
			logger.Warn("seller route denied", "user_id", userID)
			writeForbidden(w, "seller access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated caller's id, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// IsSeller reports whether the authenticated caller carries the seller
// claim.
func IsSeller(ctx context.Context) bool {
	seller, ok := ctx.Value(sellerKey).(bool)
	return ok && seller
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeDenied(w, http.StatusUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeDenied(w, http.StatusForbidden, message)
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
