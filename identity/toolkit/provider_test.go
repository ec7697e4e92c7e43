package toolkit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jozzer182/Yuva/identity"
	"github.com/jozzer182/Yuva/identity/toolkit"
)

// fakeToolkit records requests and answers with canned responses keyed by
// API method.
type fakeToolkit struct {
	responses map[string]func(body map[string]any) (int, any)
	calls     []string
}

func (f *fakeToolkit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[len("/v1/"):]
	f.calls = append(f.calls, method)
	if r.URL.Query().Get("key") != "test-key" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	respond, ok := f.responses[method]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status, payload := respond(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func apiErr(message string) any {
	return map[string]any{"error": map[string]any{"code": 400, "message": message}}
}

func newProvider(t *testing.T, f *fakeToolkit) *toolkit.Provider {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return toolkit.New("test-key", toolkit.WithEndpoint(srv.URL+"/v1"), toolkit.WithHTTPClient(srv.Client()))
}

func TestSignIn_Password(t *testing.T) {
	f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
		"accounts:signInWithPassword": func(body map[string]any) (int, any) {
			if body["email"] != "ana@example.com" || body["password"] != "pw" {
				return http.StatusBadRequest, apiErr("INVALID_LOGIN_CREDENTIALS")
			}
			return http.StatusOK, map[string]any{"localId": "u1", "email": "ana@example.com", "idToken": "id-tok"}
		},
	}}
	p := newProvider(t, f)

	s, err := p.SignIn(context.Background(), identity.PasswordCredential("ana@example.com", "pw"))
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.UID != "u1" {
		t.Errorf("uid = %q, want %q", s.UID, "u1")
	}
	if s.Token() != "id-tok" {
		t.Errorf("token = %q, want %q", s.Token(), "id-tok")
	}

	_, err = p.SignIn(context.Background(), identity.PasswordCredential("ana@example.com", "wrong"))
	if got := identity.KindOf(err); got != identity.KindInvalidCredential {
		t.Errorf("kind = %v, want %v", got, identity.KindInvalidCredential)
	}
}

func TestSignIn_ErrorClassification(t *testing.T) {
	tests := []struct {
		message string
		want    identity.Kind
	}{
		{"EMAIL_NOT_FOUND", identity.KindInvalidCredential},
		{"INVALID_PASSWORD", identity.KindInvalidCredential},
		{"TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled", identity.KindRateLimited},
		{"INTERNAL_ERROR", identity.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
				"accounts:signInWithPassword": func(map[string]any) (int, any) {
					return http.StatusBadRequest, apiErr(tt.message)
				},
			}}
			p := newProvider(t, f)

			_, err := p.SignIn(context.Background(), identity.PasswordCredential("a@b.co", "x"))
			if got := identity.KindOf(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignIn_Federated(t *testing.T) {
	var postBody string
	f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
		"accounts:signInWithIdp": func(body map[string]any) (int, any) {
			postBody, _ = body["postBody"].(string)
			return http.StatusOK, map[string]any{"localId": "u2", "email": "bo@example.com", "idToken": "t2"}
		},
	}}
	p := newProvider(t, f)

	s, err := p.SignIn(context.Background(), identity.FederatedCredential("google.com", "google-id-token"))
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.Method != identity.MethodFederated || s.Provider != "google.com" {
		t.Errorf("method/provider = %q/%q", s.Method, s.Provider)
	}

	values, err := url.ParseQuery(postBody)
	if err != nil {
		t.Fatalf("parse postBody: %v", err)
	}
	if values.Get("id_token") != "google-id-token" || values.Get("providerId") != "google.com" {
		t.Errorf("postBody = %q", postBody)
	}
}

func TestSignIn_FederatedNeedsConfirmation(t *testing.T) {
	f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
		"accounts:signInWithIdp": func(map[string]any) (int, any) {
			return http.StatusOK, map[string]any{"email": "bo@example.com", "needConfirmation": true}
		},
	}}
	p := newProvider(t, f)

	_, err := p.SignIn(context.Background(), identity.FederatedCredential("google.com", "tok"))
	if got := identity.KindOf(err); got != identity.KindConflictingCredential {
		t.Errorf("kind = %v, want %v", got, identity.KindConflictingCredential)
	}
}

func TestSignIn_CancelledNeverCallsAPI(t *testing.T) {
	f := &fakeToolkit{}
	p := newProvider(t, f)

	_, err := p.SignIn(context.Background(), identity.FederatedCredential("google.com", ""))
	if got := identity.KindOf(err); got != identity.KindCancelled {
		t.Errorf("kind = %v, want %v", got, identity.KindCancelled)
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
		want    error
	}{
		{"ok", http.StatusOK, map[string]any{}, nil},
		{"too old", http.StatusBadRequest, apiErr("CREDENTIAL_TOO_OLD_LOGIN_AGAIN"), identity.ErrStaleCredential},
		{"expired", http.StatusBadRequest, apiErr("TOKEN_EXPIRED"), identity.ErrStaleCredential},
		{"gone", http.StatusBadRequest, apiErr("USER_NOT_FOUND"), identity.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken any
			f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
				"accounts:delete": func(body map[string]any) (int, any) {
					gotToken = body["idToken"]
					return tt.status, tt.payload
				},
			}}
			p := newProvider(t, f)
			s := identity.NewSession("u1", "ana@example.com", identity.MethodPassword, fixedTime, "id-tok")

			err := p.Remove(context.Background(), s)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Remove: %v", err)
				}
			} else if !errors.Is(err, tt.want) {
				t.Fatalf("Remove err = %v, want %v", err, tt.want)
			}
			if gotToken != "id-tok" {
				t.Errorf("idToken = %v, want %q", gotToken, "id-tok")
			}
		})
	}
}

func TestRemove_DisabledAccountIsNotStale(t *testing.T) {
	f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
		"accounts:delete": func(map[string]any) (int, any) {
			return http.StatusBadRequest, apiErr("USER_DISABLED")
		},
	}}
	p := newProvider(t, f)
	s := identity.NewSession("u1", "ana@example.com", identity.MethodPassword, fixedTime, "id-tok")

	err := p.Remove(context.Background(), s)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, identity.ErrStaleCredential) {
		t.Errorf("disabled account classified as stale credential: %v", err)
	}
}

func TestRemove_ServerErrorIsNotStale(t *testing.T) {
	f := &fakeToolkit{responses: map[string]func(map[string]any) (int, any){
		"accounts:delete": func(map[string]any) (int, any) {
			return http.StatusInternalServerError, apiErr("INTERNAL_ERROR")
		},
	}}
	p := newProvider(t, f)
	s := identity.NewSession("u1", "ana@example.com", identity.MethodPassword, fixedTime, "id-tok")

	err := p.Remove(context.Background(), s)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, identity.ErrStaleCredential) {
		t.Errorf("server error classified as stale credential: %v", err)
	}
}
