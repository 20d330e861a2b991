package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const artistIDKey contextKey = "artistID"

// ArtistJWT enforces an HMAC-signed JWT on artist-scoped endpoints. The
// token's subject is the artist id; when the route carries an
// {artistID} parameter the two must match, so one artist can never read
// or write another's calendar.
func ArtistJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "artist auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			artistID, err := uuid.Parse(claims.Subject)
			if err != nil {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}
			if param := chi.URLParam(r, "artistID"); param != "" && param != artistID.String() {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), artistIDKey, artistID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ArtistIDFromContext returns the authenticated artist id if present.
func ArtistIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(artistIDKey).(uuid.UUID)
	return id, ok
}
