// Package secrets resolves sensitive configuration from a prioritized set of
// sources and turns it into the immutable signing material the token service
// uses for the process lifetime.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigError marks a missing or invalid secret. It is fatal at startup and
// never produced after the process begins serving requests.
type ConfigError struct {
	Name   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Name, e.Reason)
}

// Default lookup locations. The mount dir is where container orchestration
// injects per-secret files; the local dir serves development on the host.
const (
	DefaultMountDir = "/run/secrets"
	DefaultLocalDir = "./secrets"
)

// Resolver reads secrets with a fixed precedence: a file under the mount
// dir, then a file under the local dir, then an environment variable of the
// same name. First match wins, so an injected file always shadows the
// environment.
type Resolver struct {
	mountDir string
	localDir string
}

// NewResolver returns a Resolver over the default lookup locations.
func NewResolver() *Resolver {
	return &Resolver{mountDir: DefaultMountDir, localDir: DefaultLocalDir}
}

// NewResolverAt returns a Resolver over explicit directories. Used by tests.
func NewResolverAt(mountDir, localDir string) *Resolver {
	return &Resolver{mountDir: mountDir, localDir: localDir}
}

// Resolve returns the value for name or a *ConfigError when no source
// yields one.
func (r *Resolver) Resolve(name string) (string, error) {
	if v, ok := r.Lookup(name); ok {
		return v, nil
	}
	return "", &ConfigError{Name: name, Reason: "no secret file or environment variable found"}
}

// Lookup is Resolve for optional secrets: the second return reports whether
// any source had a value.
func (r *Resolver) Lookup(name string) (string, bool) {
	for _, dir := range []string{r.mountDir, r.localDir} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return strings.TrimSpace(string(data)), true
		}
	}
	if v, ok := os.LookupEnv(name); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}

// ResolveKeyFile finds a PEM key file matching pattern (e.g. "private*.pem")
// in the mount dir, then the local dir, and returns its contents.
func (r *Resolver) ResolveKeyFile(pattern string) ([]byte, error) {
	for _, dir := range []string{r.mountDir, r.localDir} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil || len(matches) == 0 {
			continue
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			return nil, &ConfigError{Name: pattern, Reason: err.Error()}
		}
		return data, nil
	}
	return nil, &ConfigError{Name: pattern, Reason: "no matching key file found"}
}
