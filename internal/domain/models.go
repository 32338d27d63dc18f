package domain

// Models lists every persisted type in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&PasswordCredential{},
		&Session{},
		&Role{},
		&Permission{},
		&UserRole{},
		&RolePermission{},
		&Verification{},
		&Post{},
		&AuditLog{},
	}
}
