package host

import (
	"time"

	"github.com/gorilla/securecookie"
)

const tokenMaxAge = 24 * time.Hour

// TokenIssuer mints and verifies the anti-forgery token carried on bridge
// calls. Tokens are HMAC-signed timestamps; no server-side state.
type TokenIssuer struct {
	sc *securecookie.SecureCookie
}

// NewTokenIssuer creates an issuer. hashKey should be 32 or 64 random bytes,
// persisted so tokens survive host restarts.
func NewTokenIssuer(hashKey []byte) *TokenIssuer {
	return &TokenIssuer{
		sc: securecookie.New(hashKey, nil),
	}
}

func (t *TokenIssuer) Issue() (string, error) {
	return t.sc.Encode("csrf", time.Now().Unix())
}

// Verify reports whether the token was issued by this host and has not
// expired.
func (t *TokenIssuer) Verify(token string) bool {
	if token == "" {
		return false
	}
	var issued int64
	if err := t.sc.Decode("csrf", token, &issued); err != nil {
		return false
	}
	return time.Since(time.Unix(issued, 0)) < tokenMaxAge
}
