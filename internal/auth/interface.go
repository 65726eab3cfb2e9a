package auth

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the claims accepted on admin routes
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// JWTVerifier defines the interface for JWT token verification.
// The middleware only depends on this, not on how keys are fetched.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*AdminClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
