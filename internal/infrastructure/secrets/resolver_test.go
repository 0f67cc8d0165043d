package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600); err != nil {
		t.Fatalf("write secret %s: %v", name, err)
	}
}

func TestResolver_Precedence(t *testing.T) {
	mountDir := t.TempDir()
	localDir := t.TempDir()
	r := NewResolverAt(mountDir, localDir)

	t.Setenv("PRECEDENCE_TEST", "from-env")

	// Env only.
	v, err := r.Resolve("PRECEDENCE_TEST")
	if err != nil {
		t.Fatalf("resolve from env: %v", err)
	}
	if v != "from-env" {
		t.Fatalf("expected env value, got %q", v)
	}

	// Local dev file shadows env.
	writeSecret(t, localDir, "PRECEDENCE_TEST", "from-local\n")
	v, err = r.Resolve("PRECEDENCE_TEST")
	if err != nil {
		t.Fatalf("resolve from local dir: %v", err)
	}
	if v != "from-local" {
		t.Fatalf("expected local file value, got %q", v)
	}

	// Mount-path file shadows both.
	writeSecret(t, mountDir, "PRECEDENCE_TEST", "from-mount")
	v, err = r.Resolve("PRECEDENCE_TEST")
	if err != nil {
		t.Fatalf("resolve from mount dir: %v", err)
	}
	if v != "from-mount" {
		t.Fatalf("expected mount file value, got %q", v)
	}
}

func TestResolver_MissingMandatory(t *testing.T) {
	r := NewResolverAt(t.TempDir(), t.TempDir())

	_, err := r.Resolve("NO_SUCH_SECRET_ANYWHERE")
	if err == nil {
		t.Fatalf("expected error for missing secret")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if ce.Name != "NO_SUCH_SECRET_ANYWHERE" {
		t.Fatalf("unexpected secret name in error: %s", ce.Name)
	}
}

func TestResolver_Lookup(t *testing.T) {
	r := NewResolverAt(t.TempDir(), t.TempDir())

	if _, ok := r.Lookup("OPTIONAL_SECRET_MISSING"); ok {
		t.Fatalf("expected miss for absent optional secret")
	}

	t.Setenv("OPTIONAL_SECRET_MISSING", "  padded  ")
	v, ok := r.Lookup("OPTIONAL_SECRET_MISSING")
	if !ok || v != "padded" {
		t.Fatalf("expected trimmed env value, got %q ok=%v", v, ok)
	}
}

func TestResolver_ResolveKeyFile(t *testing.T) {
	mountDir := t.TempDir()
	localDir := t.TempDir()
	r := NewResolverAt(mountDir, localDir)

	if _, err := r.ResolveKeyFile("private*.pem"); err == nil {
		t.Fatalf("expected error with no key files")
	}

	writeSecret(t, localDir, "private_key.pem", "local-key")
	data, err := r.ResolveKeyFile("private*.pem")
	if err != nil {
		t.Fatalf("resolve local key: %v", err)
	}
	if string(data) != "local-key" {
		t.Fatalf("unexpected key data: %s", data)
	}

	// A mounted key wins over the local one.
	writeSecret(t, mountDir, "private.pem", "mounted-key")
	data, err = r.ResolveKeyFile("private*.pem")
	if err != nil {
		t.Fatalf("resolve mounted key: %v", err)
	}
	if string(data) != "mounted-key" {
		t.Fatalf("unexpected key data: %s", data)
	}
}
