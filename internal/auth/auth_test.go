package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Session{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func newService(t *testing.T) *Service {
	return &Service{DB: setupTestDB(t), JWT: NewJWT("test-secret", time.Hour)}
}

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	tok, err := j.Sign(42, "sess-1", time.Now())
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != 42 || claims.SessionID != "sess-1" {
		t.Errorf("Unexpected claims %+v", claims)
	}

	if _, err := NewJWT("other", time.Hour).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestJWTExpired(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	tok, err := j.Sign(1, "s", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := j.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected expired token to fail, got %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !ComparePassword(hash, "correct horse") {
		t.Errorf("Expected password to match")
	}
	if ComparePassword(hash, "wrong") {
		t.Errorf("Expected wrong password to fail")
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tok, err := svc.Register(ctx, "  Ada@Example.com ", "password123", "Ada Lovelace")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Register(ctx, "ada@example.com", "password123", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob@example.com", "short", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "nope-nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	claims, err := svc.JWT.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	ok, err := svc.Active(ctx, claims.SessionID, claims.UserID)
	if err != nil || !ok {
		t.Fatalf("Expected active session, got %v %v", ok, err)
	}

	loginTok, err := svc.Login(ctx, "ADA@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	loginClaims, _ := svc.JWT.Verify(loginTok)

	if err := svc.Logout(ctx, claims.SessionID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if ok, _ := svc.Active(ctx, claims.SessionID, claims.UserID); ok {
		t.Errorf("Expected revoked session to be inactive")
	}
	if ok, _ := svc.Active(ctx, loginClaims.SessionID, loginClaims.UserID); !ok {
		t.Errorf("Expected other session to stay active")
	}

	u, err := svc.GetUser(ctx, claims.UserID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Email != "ada@example.com" || u.FullName != "Ada Lovelace" || u.LastSignInAt == nil {
		t.Errorf("Unexpected user %+v", u)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tok, err := svc.Register(ctx, "c@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	claims, _ := svc.JWT.Verify(tok)

	name := " Grace "
	u, err := svc.UpdateProfile(ctx, claims.UserID, ProfileUpdate{FullName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if u.FullName != "Grace" || u.AvatarURL != "" {
		t.Errorf("Unexpected profile %+v", u)
	}

	if _, err := svc.UpdateProfile(ctx, 9999, ProfileUpdate{FullName: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tok, err := svc.Register(ctx, "d@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var seen uint64
	h := RequireAuth(svc.JWT, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(""); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without header, got %d", code)
	}
	if code := do("Bearer garbage"); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad token, got %d", code)
	}
	if code := do("Bearer " + tok); code != http.StatusNoContent {
		t.Errorf("Expected 204 for valid token, got %d", code)
	}
	if seen == 0 {
		t.Errorf("Expected user id in context")
	}

	claims, _ := svc.JWT.Verify(tok)
	if err := svc.Logout(ctx, claims.SessionID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if code := do("Bearer " + tok); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", code)
	}
}
