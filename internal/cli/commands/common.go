package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/soumyendra98/GymApp/internal/cli/auth"
	"github.com/soumyendra98/GymApp/internal/cli/client"
	"github.com/soumyendra98/GymApp/internal/cli/session"
)

const defaultAPIURL = "http://localhost:8080"

// apiBaseURL resolves the API server address
func apiBaseURL() string {
	if url := os.Getenv("GYMAPP_API_URL"); url != "" {
		return url
	}
	return defaultAPIURL
}

// newSessionStore wires the API client, keyring token store and session store
// together. Every command goes through this so session handling is uniform.
func newSessionStore() (*session.Store, *client.Client) {
	apiClient := client.New(apiBaseURL())
	store := session.NewStore(auth.Default, apiClient)
	return store, apiClient
}

// restoreSession restores the persisted session. Commands that require a
// signed-in user call requireSession instead.
func restoreSession(ctx context.Context) (*session.Store, *client.Client, session.Session) {
	store, apiClient := newSessionStore()
	sess := store.Restore(ctx)
	return store, apiClient, sess
}

// requireSession restores the session and fails when nobody is signed in
func requireSession(ctx context.Context) (*session.Store, *client.Client, session.Session, error) {
	store, apiClient, sess := restoreSession(ctx)
	if !sess.Authenticated() {
		return nil, nil, sess, fmt.Errorf("not signed in. Run 'gymapp login' first")
	}
	return store, apiClient, sess, nil
}
