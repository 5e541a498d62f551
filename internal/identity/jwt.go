package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTResolver resolves HS256-signed tokens carrying a username claim.
// Invalid or foreign tokens are a miss, not an error, so the chain can fall
// through to other resolvers.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

func (r *JWTResolver) Resolve(ctx context.Context, credential string) (string, error) {
	tok, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", nil
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", nil
	}
	for _, key := range []string{"preferred_username", "username", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}
