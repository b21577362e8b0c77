package credential

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

func newTestClient(url string) *Client {
	return NewClient(url, time.Second, zerolog.Nop())
}

func TestClient_Login_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok123",
			"user": map[string]string{
				"_id": "u1", "Name": "Acme", "email": "a@b.com", "Role": "Hospital",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotPath != "/api/auth/login" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["email"] != "a@b.com" || gotBody["password"] != "secret" {
		t.Fatalf("request body = %+v", gotBody)
	}
	if res.Token != "tok123" {
		t.Fatalf("token = %q", res.Token)
	}
	if res.Identity == nil || res.Identity.ID != "u1" || res.Identity.Name != "Acme" || res.Identity.Role != "Hospital" {
		t.Fatalf("identity = %+v, alternate field casings must be folded in", res.Identity)
	}
}

func TestClient_Login_RejectionCarriesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "wrong"})

	var rejection *domain.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("err = %v, want RejectionError", err)
	}
	if rejection.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d", rejection.Status)
	}
	if rejection.Error() != "invalid email or password" {
		t.Fatalf("message = %q", rejection.Error())
	}
}

func TestClient_Login_RejectionErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "account locked"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "x"})

	var rejection *domain.RejectionError
	if !errors.As(err, &rejection) || rejection.Error() != "account locked" {
		t.Fatalf("err = %v, want rejection with the error field message", err)
	}
}

func TestClient_Login_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "x"})
	if !errors.Is(err, domain.ErrTransportUnreachable) {
		t.Fatalf("err = %v, want ErrTransportUnreachable", err)
	}
}

func TestClient_Login_MissingTokenIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"email": "a@b.com"}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "x"}); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_Login_UndecodableBodyIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Login(context.Background(), ports.Credentials{Email: "a@b.com", Password: "x"}); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_Register_PassesMessageThrough(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "account created, check your email"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	msg, err := client.Register(context.Background(), ports.RegistrationInput{
		Name: "Acme", Email: "a@b.com", Password: "x", Role: "Hospital",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if gotPath != "/api/auth/register" {
		t.Fatalf("path = %q", gotPath)
	}
	if msg != "account created, check your email" {
		t.Fatalf("message = %q", msg)
	}
}

func TestClient_Logout_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Logout(context.Background(), "tok123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestClient_UpdateProfile_SendsOnlySetFields(t *testing.T) {
	var gotBody map[string]string
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1", "name": "New Name", "email": "a@b.com", "role": "User"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	name := "New Name"
	identity, err := client.UpdateProfile(context.Background(), "tok123", "u1", ports.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/users/u1" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if len(gotBody) != 1 || gotBody["name"] != "New Name" {
		t.Fatalf("body = %+v, want only the set field", gotBody)
	}
	if identity.Name != "New Name" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestClient_UpdateProfile_MissingUserIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.UpdateProfile(context.Background(), "tok", "u1", ports.ProfileUpdate{}); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
