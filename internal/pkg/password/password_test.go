package password

import (
	"strings"
	"testing"
)

func TestVault_HashAndVerify(t *testing.T) {
	v := NewVault()

	digest, err := v.Hash("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("unexpected digest format: %s", digest)
	}
	if !v.Verify("s3cret-passw0rd", digest) {
		t.Fatalf("correct password did not verify")
	}
	if v.Verify("wrong-password", digest) {
		t.Fatalf("wrong password verified")
	}
}

func TestVault_HashIsSalted(t *testing.T) {
	v := NewVault()

	first, err := v.Hash("same-password")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := v.Hash("same-password")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !v.Verify("same-password", first) || !v.Verify("same-password", second) {
		t.Fatalf("salted digests did not both verify")
	}
}

func TestVault_EmptyPassword(t *testing.T) {
	v := NewVault()
	if _, err := v.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVault_MalformedDigest(t *testing.T) {
	v := NewVault()

	for _, digest := range []string{
		"",
		"not-a-digest",
		"$argon2id$v=19$m=65536,t=1,p=4$only-four-parts",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=99$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=bad$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	} {
		if v.Verify("whatever", digest) {
			t.Fatalf("malformed digest verified: %q", digest)
		}
	}
}
