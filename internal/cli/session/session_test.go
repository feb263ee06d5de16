package session

import (
	"context"
	"errors"
	"testing"

	"github.com/soumyendra98/GymApp/internal/cli/auth"
	"github.com/soumyendra98/GymApp/internal/models"
)

// mockTokenStore is an in-memory token store for testing
type mockTokenStore struct {
	token    string
	saveErr  error
	loadErr  error
	deletes  int
	hasToken bool
}

func (m *mockTokenStore) SaveToken(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	m.hasToken = true
	return nil
}

func (m *mockTokenStore) LoadToken() (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if !m.hasToken {
		return "", auth.ErrNoToken
	}
	return m.token, nil
}

func (m *mockTokenStore) DeleteToken() error {
	m.deletes++
	m.token = ""
	m.hasToken = false
	return nil
}

// mockGateway records the token it was given and serves a canned Me response
type mockGateway struct {
	token string
	user  *models.User
	meErr error
}

func (m *mockGateway) SetToken(token string) {
	m.token = token
}

func (m *mockGateway) Me(ctx context.Context) (*models.User, error) {
	if m.meErr != nil {
		return nil, m.meErr
	}
	return m.user, nil
}

func testUser() *models.User {
	user := &models.User{Email: "ana@gym.test", Role: models.RoleAdmin}
	user.ID = "01HYZ0000000000000000000AA"
	return user
}

func TestStore_StartsLoading(t *testing.T) {
	store := NewStore(&mockTokenStore{}, &mockGateway{})

	sess := store.Current()
	if !sess.Loading() {
		t.Errorf("new store status = %v, want loading", sess.Status)
	}
	if sess.Authenticated() {
		t.Error("loading session must not report authenticated")
	}
}

func TestRestore_NoToken(t *testing.T) {
	tokens := &mockTokenStore{}
	gateway := &mockGateway{user: testUser()}
	store := NewStore(tokens, gateway)

	sess := store.Restore(context.Background())

	if sess.Status != StatusAnonymous {
		t.Errorf("status = %v, want anonymous", sess.Status)
	}
	if sess.Authenticated() || sess.Loading() {
		t.Error("anonymous session must be neither authenticated nor loading")
	}
}

func TestRestore_ValidToken(t *testing.T) {
	tokens := &mockTokenStore{token: "tok-1", hasToken: true}
	gateway := &mockGateway{user: testUser()}
	store := NewStore(tokens, gateway)

	sess := store.Restore(context.Background())

	if !sess.Authenticated() {
		t.Fatalf("status = %v, want authenticated", sess.Status)
	}
	if sess.Token != "tok-1" {
		t.Errorf("token = %q, want tok-1", sess.Token)
	}
	if sess.User == nil || sess.User.Email != "ana@gym.test" {
		t.Errorf("user = %+v, want ana@gym.test", sess.User)
	}
	if gateway.token != "tok-1" {
		t.Errorf("gateway token = %q, want tok-1", gateway.token)
	}
}

// A token the server rejects is deleted and the session silently becomes
// anonymous; the restore does not surface the failure and does not retry.
func TestRestore_RejectedTokenDowngradesSilently(t *testing.T) {
	tokens := &mockTokenStore{token: "stale", hasToken: true}
	gateway := &mockGateway{meErr: errors.New("401 unauthorized")}
	store := NewStore(tokens, gateway)

	sess := store.Restore(context.Background())

	if sess.Status != StatusAnonymous {
		t.Errorf("status = %v, want anonymous", sess.Status)
	}
	if tokens.hasToken {
		t.Error("rejected token should have been deleted")
	}
	if tokens.deletes != 1 {
		t.Errorf("deletes = %d, want 1", tokens.deletes)
	}
	if gateway.token != "" {
		t.Errorf("gateway token = %q, want cleared", gateway.token)
	}
}

func TestLogin_PersistsTokenAndAuthenticates(t *testing.T) {
	tokens := &mockTokenStore{}
	gateway := &mockGateway{}
	store := NewStore(tokens, gateway)

	if err := store.Login(testUser(), "tok-2"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if tokens.token != "tok-2" {
		t.Errorf("persisted token = %q, want tok-2", tokens.token)
	}
	sess := store.Current()
	if !sess.Authenticated() {
		t.Errorf("status = %v, want authenticated", sess.Status)
	}

	// A fresh store restores the same session from the persisted token
	gateway2 := &mockGateway{user: testUser()}
	store2 := NewStore(tokens, gateway2)
	sess2 := store2.Restore(context.Background())
	if !sess2.Authenticated() || sess2.Token != "tok-2" {
		t.Errorf("restored session = %+v, want authenticated with tok-2", sess2)
	}
}

func TestLogin_RejectsNilUserAndEmptyToken(t *testing.T) {
	tests := []struct {
		name  string
		user  *models.User
		token string
	}{
		{name: "nil user", user: nil, token: "tok-5"},
		{name: "empty token", user: testUser(), token: ""},
		{name: "both missing", user: nil, token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mockTokenStore{}
			store := NewStore(tokens, &mockGateway{})

			if err := store.Login(tt.user, tt.token); !errors.Is(err, ErrIncompleteLogin) {
				t.Fatalf("Login error = %v, want ErrIncompleteLogin", err)
			}
			if store.Current().Authenticated() {
				t.Error("session must not authenticate without both user and token")
			}
			if tokens.hasToken {
				t.Error("no token should be persisted")
			}
		})
	}
}

// A snapshot claiming authenticated status without a user or token does not
// count as authenticated; the invariant holds even for hand-built sessions.
func TestSession_AuthenticatedRequiresUserAndToken(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{name: "complete", sess: Session{Status: StatusAuthenticated, Token: "tok", User: testUser()}, want: true},
		{name: "missing user", sess: Session{Status: StatusAuthenticated, Token: "tok"}, want: false},
		{name: "missing token", sess: Session{Status: StatusAuthenticated, User: testUser()}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.Authenticated(); got != tt.want {
				t.Errorf("Authenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogin_SaveFailureKeepsSessionOut(t *testing.T) {
	tokens := &mockTokenStore{saveErr: errors.New("keyring locked")}
	store := NewStore(tokens, &mockGateway{})

	if err := store.Login(testUser(), "tok-3"); err == nil {
		t.Fatal("expected error when token save fails")
	}
	if store.Current().Authenticated() {
		t.Error("session must not authenticate when the token was not persisted")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	tokens := &mockTokenStore{}
	gateway := &mockGateway{}
	store := NewStore(tokens, gateway)

	if err := store.Login(testUser(), "tok-4"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("first Logout: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}

	sess := store.Current()
	if sess.Status != StatusAnonymous {
		t.Errorf("status = %v, want anonymous", sess.Status)
	}
	if tokens.hasToken {
		t.Error("token should be gone after logout")
	}
	if gateway.token != "" {
		t.Errorf("gateway token = %q, want cleared", gateway.token)
	}
}
