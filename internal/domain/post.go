package domain

import "time"

type Post struct {
	ID        PostID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	UserID    UserID    `gorm:"type:uuid;not null;index" db:"user_id" json:"userId"`
	Title     string    `gorm:"type:text;not null;uniqueIndex:ux_posts_title" db:"title" json:"title"`
	Content   string    `gorm:"type:text;not null" db:"content" json:"content"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }
