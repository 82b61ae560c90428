package auth

import (
    "time"

    "github.com/golang-jwt/jwt/v5"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// The bearer token is an opaque signed string issued by the server.
// The client never verifies the signature (it has no secret); it only
// reads the claims to decide which role to present and whether the
// token is worth sending at all.  The server re-validates every
// request, so a tampered token buys nothing.

// claims read from the token payload.  userRole is optional; a token
// without it authenticates but resolves no role.
type tokenClaims struct {
    UserID   uint64 `json:"userId"`
    UserRole string `json:"userRole,omitempty"`
    jwt.RegisteredClaims
}

// decodeClaims parses the token without signature verification and
// returns its claims.  Malformed tokens return an error.
func decodeClaims(raw string) (*tokenClaims, error) {
    var claims tokenClaims
    parser := jwt.NewParser()
    if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
        return nil, err
    }
    return &claims, nil
}

// roleFromToken resolves the role claim of a token.  Unrecognized or
// missing claims resolve to RoleNone, never an error.
func roleFromToken(raw string) model.Role {
    claims, err := decodeClaims(raw)
    if err != nil {
        return model.RoleNone
    }
    return model.ParseRole(claims.UserRole)
}

// tokenAlive reports whether the token carries a numeric expiry claim
// strictly in the future.  Missing, unparseable or expired tokens are
// treated as absent.
func tokenAlive(raw string, now time.Time) bool {
    claims, err := decodeClaims(raw)
    if err != nil {
        return false
    }
    exp := claims.ExpiresAt
    if exp == nil {
        return false
    }
    return exp.Time.After(now)
}
