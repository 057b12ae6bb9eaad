package account

import "golang.org/x/crypto/bcrypt"

// Credentials is the strategy for storing and checking passwords. The
// directory never compares passwords itself, so swapping plaintext for
// hashing changes nothing in the store contract.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// PlainCredentials stores passwords as-is and compares byte-exact. This is
// the legacy behavior and a known weakness; keep it only for data written by
// old installs.
type PlainCredentials struct{}

func (PlainCredentials) Hash(password string) (string, error) {
	return password, nil
}

func (PlainCredentials) Verify(password, stored string) bool {
	return password == stored
}

// BcryptCredentials is the default for new builds.
type BcryptCredentials struct{}

func (BcryptCredentials) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (BcryptCredentials) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
