package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	AccessOwn = "own"
	AccessAny = "any"
)

type Role struct {
	ID          RoleID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:ux_roles_name" db:"name" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" db:"description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Role) TableName() string { return "roles" }

// Permission is one (action, entity, access) triple, e.g. (update, post, own).
type Permission struct {
	ID          PermissionID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Action      string       `gorm:"type:text;not null;uniqueIndex:ux_permissions_triple" db:"action" json:"action"`
	Entity      string       `gorm:"type:text;not null;uniqueIndex:ux_permissions_triple" db:"entity" json:"entity"`
	Access      string       `gorm:"type:text;not null;uniqueIndex:ux_permissions_triple" db:"access" json:"access"`
	Description string       `gorm:"type:text;not null;default:''" db:"description" json:"description"`
	CreatedAt   time.Time    `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Permission) TableName() string { return "permissions" }

type UserRole struct {
	UserID UserID `gorm:"type:uuid;primaryKey" db:"user_id"`
	RoleID RoleID `gorm:"type:uuid;primaryKey;index" db:"role_id"`
}

func (UserRole) TableName() string { return "users_to_roles" }

type RolePermission struct {
	RoleID       RoleID       `gorm:"type:uuid;primaryKey" db:"role_id"`
	PermissionID PermissionID `gorm:"type:uuid;primaryKey;index" db:"permission_id"`
}

func (RolePermission) TableName() string { return "roles_to_permissions" }
