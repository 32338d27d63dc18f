package service

// Credential is the view of a stored password hash the password service
// needs. *domain.PasswordCredential implements it.
type Credential interface {
	GetAlgo() string
	GetHash() []byte
	GetSalt() []byte
	GetParamsJSON() []byte
	GetPasswordVer() int
}

type PasswordService interface {
	Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error)
	Verify(password string, cred Credential) (rehashNeeded bool, ok bool)
}
