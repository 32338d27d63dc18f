package domain

import "time"

// PasswordCredential holds the salted hash of a user's password. The
// plaintext is never persisted.
type PasswordCredential struct {
	ID          CredentialID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID      UserID       `gorm:"type:uuid;not null;uniqueIndex:ux_pwd_user" db:"user_id"`
	Algo        string       `gorm:"type:text;not null" db:"algo"`
	Hash        []byte       `gorm:"not null" db:"hash"`
	Salt        []byte       `db:"salt"`
	ParamsJSON  []byte       `db:"params_json"`
	PasswordVer int          `gorm:"not null;default:1" db:"password_ver"`
	CreatedAt   time.Time    `gorm:"not null" db:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" db:"updated_at"`
}

func (PasswordCredential) TableName() string { return "password_credentials" }

func (p *PasswordCredential) GetAlgo() string       { return p.Algo }
func (p *PasswordCredential) GetHash() []byte       { return p.Hash }
func (p *PasswordCredential) GetSalt() []byte       { return p.Salt }
func (p *PasswordCredential) GetParamsJSON() []byte { return p.ParamsJSON }
func (p *PasswordCredential) GetPasswordVer() int   { return p.PasswordVer }
