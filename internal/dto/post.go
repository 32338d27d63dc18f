package dto

import "time"

type PostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
