package dto

// CreatePostRequest HTTP创建帖子请求
// 必填校验由领域层完成(空字符串返回40902)
type CreatePostRequest struct {
	Title   string `json:"title" binding:"max=255" example:"第一篇帖子"`
	Content string `json:"content" example:"帖子正文"`
	Name    string `json:"name" binding:"max=100" example:"张三"`
}

// ImportPostsRequest HTTP按路径导入请求
// path是服务端可访问的文件路径(.xlsx/.xlsm/.csv)
type ImportPostsRequest struct {
	Path string `json:"path" binding:"required" example:"/data/import/posts.xlsx"`
}

// ImportPostsResponse 导入结果
type ImportPostsResponse struct {
	Imported int `json:"imported" example:"1200"`
}

// ListPostsRequest HTTP列表请求
// page从0开始;size默认10,超过100按100处理
type ListPostsRequest struct {
	Page int `form:"page" binding:"min=0" example:"0"`
	Size int `form:"size" binding:"min=0" example:"10"`
}

// PostResponse HTTP帖子详情响应
type PostResponse struct {
	ID        uint   `json:"id" example:"1"`
	Title     string `json:"title" example:"第一篇帖子"`
	Content   string `json:"content" example:"帖子正文"`
	Name      string `json:"name" example:"张三"`
	Views     int    `json:"views" example:"12"`
	Likes     int    `json:"likes" example:"3"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// PostListItem HTTP帖子列表项(不含content)
type PostListItem struct {
	ID    uint   `json:"id" example:"1"`
	Title string `json:"title" example:"第一篇帖子"`
	Name  string `json:"name" example:"张三"`
	Likes int    `json:"likes" example:"3"`
	Views int    `json:"views" example:"12"`
}
