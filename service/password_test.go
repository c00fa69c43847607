package service

import (
	"errors"
	"testing"

	"github.com/aaraaapps/aaraa.app/config"
)

func TestPasswordCheckerPlain(t *testing.T) {
	p := NewPasswordChecker(&config.AuthConfig{SharedPassword: "123"})

	if err := p.Check("123"); err != nil {
		t.Errorf("Expected password to match, got %v", err)
	}
	if err := p.Check("1234"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials, got %v", err)
	}
	if err := p.Check(""); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for empty password, got %v", err)
	}
}

func TestPasswordCheckerHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	p := NewPasswordChecker(&config.AuthConfig{SharedPassword: "123", SharedPasswordHash: hash})
	if err := p.Check("s3cret"); err != nil {
		t.Errorf("Expected hashed password to match, got %v", err)
	}
	if err := p.Check("123"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected plain password to be ignored when a hash is set, got %v", err)
	}
}

func TestPasswordCheckerEmptyConfig(t *testing.T) {
	p := NewPasswordChecker(&config.AuthConfig{})
	if err := p.Check(""); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials, got %v", err)
	}
}
