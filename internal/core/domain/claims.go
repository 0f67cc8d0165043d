package domain

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload carried by every issued access token. The seven
// fields (sub, role, iss, aud, iat, exp, jti) are all mandatory on issuance;
// sub holds the principal's email and ID (jti) is the revocation key.
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}
