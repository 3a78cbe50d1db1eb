package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides an identity extraction function that pulls the member email set by
// JWTAuth (or the subject claim from a raw JWT stored in the Echo context, for
// routes wrapped by other JWT middleware). When no token is present or no
// relevant claim exists, "anon" is returned.

import (
    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// currentUserEmail extracts the member email from the request context. It
// returns "anon" when no user is authenticated or the claims are missing.
func currentUserEmail(c echo.Context) string {
    if v := c.Get("user_email"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    u := c.Get("user")
    if u == nil {
        return "anon"
    }
    if tok, ok := u.(*jwt.Token); ok {
        if cl, ok := tok.Claims.(jwt.MapClaims); ok {
            if v, ok := cl["sub"].(string); ok && v != "" {
                return v
            }
        }
    }
    return "anon"
}
