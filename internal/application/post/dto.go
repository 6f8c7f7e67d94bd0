package post

import (
	"github.com/xiebiao/postboard/internal/domain/post"
)

// PostResponse 帖子详情DTO
type PostResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Name      string `json:"name"`
	Views     int    `json:"views"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"created_at"`
}

// PostListItem 列表项DTO(不含content)
type PostListItem struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Likes int    `json:"likes"`
	Views int    `json:"views"`
}

func toPostResponse(p *post.Post) *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Name:      p.Name,
		Views:     p.Views,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
