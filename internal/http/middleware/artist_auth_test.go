package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func artistRouter(secret string) (http.Handler, *uuid.UUID) {
	var seen uuid.UUID
	r := chi.NewRouter()
	r.Route("/artists/{artistID}", func(r chi.Router) {
		r.Use(ArtistJWT(secret))
		r.Get("/calendar", func(w http.ResponseWriter, req *http.Request) {
			if id, ok := ArtistIDFromContext(req.Context()); ok {
				seen = id
			}
			w.WriteHeader(http.StatusOK)
		})
	})
	return r, &seen
}

func TestArtistJWTAllowsOwner(t *testing.T) {
	artistID := uuid.New()
	handler, seen := artistRouter(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/artists/"+artistID.String()+"/calendar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, artistID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seen != artistID {
		t.Fatalf("expected artist id in context, got %s", seen)
	}
}

func TestArtistJWTRejectsOtherArtist(t *testing.T) {
	handler, _ := artistRouter(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/artists/"+uuid.NewString()+"/calendar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, uuid.NewString()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestArtistJWTRejectsMissingHeader(t *testing.T) {
	handler, _ := artistRouter(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/artists/"+uuid.NewString()+"/calendar", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestArtistJWTRejectsWrongSignature(t *testing.T) {
	artistID := uuid.New()
	handler, _ := artistRouter(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/artists/"+artistID.String()+"/calendar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", artistID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestArtistJWTRejectsWhenDisabled(t *testing.T) {
	artistID := uuid.New()
	handler, _ := artistRouter("")

	req := httptest.NewRequest(http.MethodGet, "/artists/"+artistID.String()+"/calendar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, artistID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
