package service

import (
	"crypto/subtle"

	"github.com/aaraaapps/aaraa.app/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker validates the shared login password. It is a stand-in
// until employees carry their own credentials.
type PasswordChecker struct {
	plain string
	hash  []byte
}

func NewPasswordChecker(cfg *config.AuthConfig) *PasswordChecker {
	p := &PasswordChecker{plain: cfg.SharedPassword}
	if cfg.SharedPasswordHash != "" {
		p.hash = []byte(cfg.SharedPasswordHash)
	}
	return p
}

// HashPassword returns a bcrypt hash suitable for auth.shared_password_hash
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (p *PasswordChecker) Check(password string) error {
	if p.hash != nil {
		if bcrypt.CompareHashAndPassword(p.hash, []byte(password)) != nil {
			return ErrBadCredentials
		}
		return nil
	}
	if p.plain == "" || subtle.ConstantTimeCompare([]byte(p.plain), []byte(password)) != 1 {
		return ErrBadCredentials
	}
	return nil
}
