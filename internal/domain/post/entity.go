package post

import (
	"strings"
	"time"
)

// Post 帖子实体(聚合根)
// 设计说明:
// 1. ID由数据库自增生成,创建后不可变
// 2. Title/Content/Name持久化后不为NULL(导入时缺失的列存为空字符串)
// 3. Views只通过存储层原子自增修改,Likes在本服务内只读
type Post struct {
	ID        uint
	Title     string // 标题
	Content   string // 正文
	Name      string // 作者名
	Views     int    // 浏览数
	Likes     int    // 点赞数
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost 创建新帖子(工厂方法)
// 新帖子的views和likes都从0开始
func NewPost(title, content, name string) *Post {
	now := time.Now()
	return &Post{
		Title:     title,
		Content:   content,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate 校验单条创建的必填字段
// 批量导入不走此校验,缺失的列按空字符串写入
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Content) == "" ||
		strings.TrimSpace(p.Name) == "" {
		return ErrInvalidPost
	}
	return nil
}
