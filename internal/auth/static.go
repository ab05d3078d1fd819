package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// StaticVerifier validates long-lived service tokens for machine-to-machine
// callers. Tokens are configured as bcrypt hashes so the plaintext never
// lives in the environment.
type StaticVerifier struct {
	entries []staticEntry
}

type staticEntry struct {
	subject string
	email   string
	hash    []byte
}

// NewStaticVerifier parses entries of the form
// "subject:email:bcrypt-hash", comma separated.
func NewStaticVerifier(spec string) (*StaticVerifier, error) {
	v := &StaticVerifier{}
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("auth: malformed service token entry %q", raw)
		}
		v.entries = append(v.entries, staticEntry{
			subject: parts[0],
			email:   parts[1],
			hash:    []byte(parts[2]),
		})
	}
	return v, nil
}

// Verify compares the presented token against every configured hash.
func (v *StaticVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	for _, e := range v.entries {
		if err := bcrypt.CompareHashAndPassword(e.hash, []byte(token)); err == nil {
			return &Identity{Subject: e.subject, Email: e.email}, nil
		}
	}
	return nil, ErrInvalidToken
}
