package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Credential is the single staff login.  Only the bcrypt hash of the
// password is kept in memory.
type Credential struct {
	username string
	hash     string
}

// NewCredential hashes password and returns the credential.
func NewCredential(username, password string, cost int) (*Credential, error) {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	return &Credential{username: username, hash: hash}, nil
}

// Username returns the staff username.
func (c *Credential) Username() string { return c.username }

// Matches reports whether username/password are the staff credential.
func (c *Credential) Matches(username, password string) bool {
	return username == c.username && VerifyPassword(c.hash, password)
}
