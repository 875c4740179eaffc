package platform

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session token validation errors
var (
	ErrTokenInvalid     = errors.New("session token invalid")
	ErrTokenExpired     = errors.New("session token expired")
	ErrTokenNotYetValid = errors.New("session token not yet valid")
	ErrTokenAudience    = errors.New("session token audience mismatch")
	ErrTokenDestination = errors.New("session token missing destination")
	ErrTokenIssuer      = errors.New("session token issuer does not match destination")
)

// SessionClaims are the claims the platform embeds in an app session
// token. Destination carries the shop's admin URL.
type SessionClaims struct {
	jwt.RegisteredClaims
	Destination string `json:"dest"`
}

// SessionTokenValidator validates session tokens minted by the platform
// for the embedded admin UI. Tokens are HS256-signed with the app's API
// secret and scoped to the app via the audience claim.
type SessionTokenValidator struct {
	apiKey    string
	apiSecret []byte
	leeway    time.Duration
}

// NewSessionTokenValidator creates a validator for the given app
// credentials.
func NewSessionTokenValidator(apiKey, apiSecret string) *SessionTokenValidator {
	return &SessionTokenValidator{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		leeway:    10 * time.Second,
	}
}

// Validate parses and verifies a session token and returns the shop
// domain it was issued for.
func (v *SessionTokenValidator) Validate(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.apiSecret, nil
	}, jwt.WithLeeway(v.leeway))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return "", ErrTokenNotYetValid
		default:
			return "", ErrTokenInvalid
		}
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	if v.apiKey != "" && !audienceContains(claims.Audience, v.apiKey) {
		return "", ErrTokenAudience
	}

	shop := ShopFromDestination(claims.Destination)
	if shop == "" {
		return "", ErrTokenDestination
	}

	// The platform mints iss as the shop's admin URL. A token whose
	// issuer names a different shop than dest is forged or replayed
	// across shops, so the two hosts must agree.
	if !strings.EqualFold(ShopFromDestination(claims.Issuer), shop) {
		return "", ErrTokenIssuer
	}

	return shop, nil
}

func audienceContains(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// ShopFromDestination strips the scheme and any path from a dest claim,
// leaving the bare shop domain.
func ShopFromDestination(dest string) string {
	shop := strings.TrimPrefix(dest, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	if i := strings.IndexByte(shop, '/'); i >= 0 {
		shop = shop[:i]
	}
	return shop
}
