package domain

import "time"

type User struct {
	ID        UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Email     string    `gorm:"type:text;not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	Username  string    `gorm:"type:text;not null;uniqueIndex:ux_users_username" db:"username" json:"username"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
