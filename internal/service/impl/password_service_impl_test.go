package impl

import (
	"bytes"
	"testing"

	"wicki/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// testArgon2Params keeps hashing fast in tests.
var testArgon2Params = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestPasswordService() *PasswordServiceImpl {
	return NewPasswordServiceWithParams(1, testArgon2Params)
}

func hashCredential(t *testing.T, p *PasswordServiceImpl, password string) *domain.PasswordCredential {
	t.Helper()
	hash, salt, params, algo, ver, err := p.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}
}

func TestHashAndVerify(t *testing.T) {
	p := newTestPasswordService()
	cred := hashCredential(t, p, "secret1")

	if bytes.Contains(cred.Hash, []byte("secret1")) {
		t.Fatalf("hash must not contain the plaintext")
	}
	if rehash, ok := p.Verify("secret1", cred); !ok || rehash {
		t.Fatalf("expected ok without rehash, got ok=%v rehash=%v", ok, rehash)
	}
	if _, ok := p.Verify("secret2", cred); ok {
		t.Fatalf("wrong password verified")
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	p := newTestPasswordService()
	a := hashCredential(t, p, "secret1")
	b := hashCredential(t, p, "secret1")
	if bytes.Equal(a.Salt, b.Salt) || bytes.Equal(a.Hash, b.Hash) {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	if _, _, _, _, _, err := newTestPasswordService().Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestRehashOnPolicyChange(t *testing.T) {
	old := newTestPasswordService()
	cred := hashCredential(t, old, "secret1")

	stronger := testArgon2Params
	stronger.Time = 2
	cur := NewPasswordServiceWithParams(2, stronger)

	rehash, ok := cur.Verify("secret1", cred)
	if !ok || !rehash {
		t.Fatalf("expected ok with rehash, got ok=%v rehash=%v", ok, rehash)
	}
	if rehash, ok := cur.Verify("wrong", cred); ok || rehash {
		t.Fatalf("failed verification must not ask for a rehash")
	}
}

func TestLegacyBcrypt(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cred := &domain.PasswordCredential{Algo: "bcrypt", Hash: h}
	p := newTestPasswordService()

	if rehash, ok := p.Verify("secret1", cred); !ok || !rehash {
		t.Fatalf("bcrypt hash should verify and ask for rehash, got ok=%v rehash=%v", ok, rehash)
	}
	if _, ok := p.Verify("nope", cred); ok {
		t.Fatalf("wrong password verified against bcrypt")
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	cred := &domain.PasswordCredential{Algo: "md5", Hash: []byte("x")}
	if _, ok := newTestPasswordService().Verify("x", cred); ok {
		t.Fatalf("unknown algorithm must not verify")
	}
}
