package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestCompositeAuthenticator(t *testing.T) {
	keys := NewAPIKeyAuthenticator("", APIKey{Principal: "svc", Hash: HashAPIKey("k")})
	tokens := NewJWTAuthenticator(JWTConfig{Secret: testSecret})
	c := NewCompositeAuthenticator(nil, keys, tokens)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (nil skipped)", c.Len())
	}

	id, err := c.Authenticate(context.Background(), keyHeader("k"))
	if err != nil || id.Principal != "svc" {
		t.Errorf("api key: id=%+v err=%v", id, err)
	}

	token := mustSign(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"}})
	id, err = c.Authenticate(context.Background(), bearerHeader(token))
	if err != nil || id.Principal != "bob" {
		t.Errorf("jwt: id=%+v err=%v", id, err)
	}

	if c.Supports(http.Header{}) {
		t.Error("Supports(empty) = true")
	}
	if _, err := c.Authenticate(context.Background(), http.Header{}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("empty header error = %v, want ErrMissingCredentials", err)
	}
}
