package secrets

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Secret names recognized by the gateway.
const (
	NameEncryptionKey = "JANUX_ENCRYPTION_KEY"
	NameSigningSecret = "AUTH_SECRET_KEY"
	NameMongoURI      = "MONGO_URI"
	NamePostgresDSN   = "POSTGRES_DSN"

	NameSuperAdminEmail    = "SUPER_ADMIN_EMAIL"
	NameSuperAdminPassword = "SUPER_ADMIN_PASSWORD"
	NameSuperAdminFullName = "SUPER_ADMIN_FULLNAME"
	NameTesterEmail        = "TESTER_EMAIL"
	NameTesterPassword     = "TESTER_PASSWORD"
	NameTesterFullName     = "TESTER_FULLNAME"
)

// minSigningSecretLen is the floor for a symmetric signing secret.
const minSigningSecretLen = 32

// defaultAllowedAlgorithms is the secure subset of standard JWT algorithms
// the gateway will sign or verify with. "none" and digest-only algorithms
// are never accepted.
var defaultAllowedAlgorithms = []string{"RS256", "ES256", "HS256"}

// Material is the process-wide cryptographic state: signing and verification
// keys for the configured algorithm plus the data-encryption key. Resolved
// once at startup and immutable afterwards.
type Material struct {
	Algorithm     string
	Method        jwt.SigningMethod
	SignKey       any
	VerifyKey     any
	EncryptionKey string
}

// LoadMaterial resolves and validates all cryptographic material. algorithm
// must be a member of allowed (or of the default allow-list when allowed is
// empty); key material must parse for that algorithm. Every failure is a
// *ConfigError and should abort startup.
func LoadMaterial(r *Resolver, algorithm string, allowed []string) (*Material, error) {
	if len(allowed) == 0 {
		allowed = defaultAllowedAlgorithms
	}
	if !algorithmAllowed(algorithm, allowed) {
		return nil, &ConfigError{
			Name:   "JWT_ALGORITHM",
			Reason: fmt.Sprintf("algorithm %q is not in the allow-list %v", algorithm, allowed),
		}
	}

	m := &Material{Algorithm: algorithm}

	switch algorithm {
	case "RS256":
		m.Method = jwt.SigningMethodRS256
		privPEM, err := r.ResolveKeyFile("private*.pem")
		if err != nil {
			return nil, err
		}
		pubPEM, err := r.ResolveKeyFile("public*.pem")
		if err != nil {
			return nil, err
		}
		priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
		if err != nil {
			return nil, &ConfigError{Name: "private key", Reason: "not a valid RSA private key: " + err.Error()}
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
		if err != nil {
			return nil, &ConfigError{Name: "public key", Reason: "not a valid RSA public key: " + err.Error()}
		}
		m.SignKey, m.VerifyKey = priv, pub

	case "ES256":
		m.Method = jwt.SigningMethodES256
		privPEM, err := r.ResolveKeyFile("private*.pem")
		if err != nil {
			return nil, err
		}
		pubPEM, err := r.ResolveKeyFile("public*.pem")
		if err != nil {
			return nil, err
		}
		priv, err := jwt.ParseECPrivateKeyFromPEM(privPEM)
		if err != nil {
			return nil, &ConfigError{Name: "private key", Reason: "not a valid EC private key: " + err.Error()}
		}
		pub, err := jwt.ParseECPublicKeyFromPEM(pubPEM)
		if err != nil {
			return nil, &ConfigError{Name: "public key", Reason: "not a valid EC public key: " + err.Error()}
		}
		m.SignKey, m.VerifyKey = priv, pub

	case "HS256":
		m.Method = jwt.SigningMethodHS256
		secret, err := r.Resolve(NameSigningSecret)
		if err != nil {
			return nil, err
		}
		if len(secret) < minSigningSecretLen {
			return nil, &ConfigError{
				Name:   NameSigningSecret,
				Reason: fmt.Sprintf("must be at least %d characters", minSigningSecretLen),
			}
		}
		m.SignKey, m.VerifyKey = []byte(secret), []byte(secret)

	default:
		// Allow-listed but unimplemented; keep the allow-list and this
		// switch in sync.
		return nil, &ConfigError{Name: "JWT_ALGORITHM", Reason: "unsupported algorithm " + algorithm}
	}

	enc, err := r.Resolve(NameEncryptionKey)
	if err != nil {
		return nil, err
	}
	m.EncryptionKey = enc

	return m, nil
}

func algorithmAllowed(algorithm string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), algorithm) {
			return true
		}
	}
	return false
}
