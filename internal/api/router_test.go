package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/auto-respawn/autonomys"
	"github.com/AlexZinkM/auto-respawn/internal/crypto"
	"github.com/AlexZinkM/auto-respawn/internal/keyring"
	"github.com/AlexZinkM/auto-respawn/internal/keystore"
	"github.com/AlexZinkM/auto-respawn/internal/network"
	"github.com/AlexZinkM/auto-respawn/internal/passphrase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ks := keystore.New(t.TempDir(), passphrase.NewResolver("", passphrase.Static("pw")), keyring.New(),
		keystore.WithScryptParams(crypto.Params{N: 1 << 10, R: 8, P: 1}))
	svc := autonomys.New(ks, network.New(network.Chronos), autonomys.Endpoints{})
	return SetupRouter(svc, time.Second)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/wallets", http.StatusOK},
		{http.MethodGet, "/address?address=0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", http.StatusOK},
		{http.MethodGet, "/address?address=nope", http.StatusBadRequest},
		{http.MethodGet, "/balance?address=0x00", http.StatusBadRequest},
		{http.MethodPost, "/wallets", http.StatusMethodNotAllowed},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSwaggerDocRegistered(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/anchor/head") {
		t.Fatalf("swagger document does not describe /anchor/head")
	}
}
