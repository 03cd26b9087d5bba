// Package auth keeps source login credentials in the system keyring.
package auth

import (
	"encoding/json"
	"errors"

	"github.com/lnget-cli/lnget/constant"
	"github.com/samber/mo"
	"github.com/zalando/go-keyring"
)

// Credentials of one source account.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var service = constant.Lnget + "-sources"

// Save stores the credentials used for the source with the given id.
func Save(sourceID string, c Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return keyring.Set(service, sourceID, string(data))
}

// Load returns the stored credentials of a source, if any.
func Load(sourceID string) (mo.Option[Credentials], error) {
	data, err := keyring.Get(service, sourceID)
	if errors.Is(err, keyring.ErrNotFound) {
		return mo.None[Credentials](), nil
	}
	if err != nil {
		return mo.None[Credentials](), err
	}

	var c Credentials
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return mo.None[Credentials](), err
	}
	return mo.Some(c), nil
}

// Forget removes the stored credentials of a source.
func Forget(sourceID string) error {
	err := keyring.Delete(service, sourceID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Keyring exposes the package functions as a value.
type Keyring struct{}

func (Keyring) Load(sourceID string) (mo.Option[Credentials], error) { return Load(sourceID) }
func (Keyring) Save(sourceID string, c Credentials) error            { return Save(sourceID, c) }
