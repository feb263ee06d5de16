package auth

import "errors"

// ErrNoToken is returned when no session token is persisted
var ErrNoToken = errors.New("no session token stored")

// TokenStore defines the interface for token storage operations.
// This allows us to mock the keyring in tests.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// defaultTokenStore implements TokenStore using the OS keyring
type defaultTokenStore struct{}

var Default TokenStore = &defaultTokenStore{}

func (d *defaultTokenStore) SaveToken(token string) error {
	return SaveToken(token)
}

func (d *defaultTokenStore) LoadToken() (string, error) {
	return LoadToken()
}

func (d *defaultTokenStore) DeleteToken() error {
	return DeleteToken()
}
