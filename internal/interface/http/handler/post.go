package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apppost "github.com/xiebiao/postboard/internal/application/post"
	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/interface/http/dto"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
	"github.com/xiebiao/postboard/pkg/response"
)

// PostHandler 帖子HTTP处理器
type PostHandler struct {
	createPostUseCase   *apppost.CreatePostUseCase
	getPostUseCase      *apppost.GetPostUseCase
	deletePostUseCase   *apppost.DeletePostUseCase
	listPostsUseCase    *apppost.ListPostsUseCase
	importPostsUseCase  *apppost.ImportPostsUseCase
	importUploadUseCase *apppost.ImportUploadUseCase
	maxUploadSize       int64
}

// NewPostHandler 创建帖子处理器
func NewPostHandler(
	createPostUseCase *apppost.CreatePostUseCase,
	getPostUseCase *apppost.GetPostUseCase,
	deletePostUseCase *apppost.DeletePostUseCase,
	listPostsUseCase *apppost.ListPostsUseCase,
	importPostsUseCase *apppost.ImportPostsUseCase,
	importUploadUseCase *apppost.ImportUploadUseCase,
	maxUploadSize int64,
) *PostHandler {
	return &PostHandler{
		createPostUseCase:   createPostUseCase,
		getPostUseCase:      getPostUseCase,
		deletePostUseCase:   deletePostUseCase,
		listPostsUseCase:    listPostsUseCase,
		importPostsUseCase:  importPostsUseCase,
		importUploadUseCase: importUploadUseCase,
		maxUploadSize:       maxUploadSize,
	}
}

// CreatePost 创建帖子
// @Summary      创建帖子
// @Description  创建一条帖子,views和likes从0开始
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "帖子信息"
// @Success      200 {object} response.Response{data=dto.PostResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/posts [post]
// @Router       /api/posts/add [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.createPostUseCase.Execute(c.Request.Context(), apppost.CreatePostRequest{
		Title:   req.Title,
		Content: req.Content,
		Name:    req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toPostResponse(result))
}

// GetPost 帖子详情(浏览数+1)
// @Summary      帖子详情
// @Description  返回帖子详情,每次成功调用浏览数加1
// @Tags         帖子
// @Produce      json
// @Param        id path int true "帖子ID"
// @Success      200 {object} response.Response{data=dto.PostResponse}
// @Failure      400 {object} response.Response "无效的ID"
// @Failure      404 {object} response.Response "帖子不存在"
// @Router       /api/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.getPostUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toPostResponse(result))
}

// DeletePost 删除帖子
// @Summary      删除帖子
// @Tags         帖子
// @Produce      json
// @Param        id path int true "帖子ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "帖子不存在"
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.deletePostUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ListPosts 按点赞数分页查询
// @Summary      帖子列表
// @Description  按likes降序(相同时按id升序)分页,列表项不含content
// @Tags         帖子
// @Produce      json
// @Param        page query int false "页码(从0开始)" default(0)
// @Param        size query int false "每页数量(最大100)" default(10)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.PostListItem}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/posts/list [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.listPostsUseCase.Execute(c.Request.Context(), apppost.ListPostsRequest{
		Page: req.Page,
		Size: req.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.PostListItem, len(result.List))
	for i, item := range result.List {
		list[i] = dto.PostListItem{
			ID:    item.ID,
			Title: item.Title,
			Name:  item.Name,
			Likes: item.Likes,
			Views: item.Views,
		}
	}

	response.SuccessWithPage(c, list, result.Total, result.Page, result.PageSize)
}

// ImportPosts 从服务端文件批量导入
// @Summary      批量导入(服务端路径)
// @Description  读取服务端路径下的表格文件(.xlsx/.xlsm/.csv),表头需包含title、content、name
// @Tags         帖子导入
// @Accept       json
// @Produce      json
// @Param        request body dto.ImportPostsRequest true "文件路径"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "参数错误"
// @Failure      500 {object} response.Response "导入失败"
// @Router       /api/posts/excel [post]
func (h *PostHandler) ImportPosts(c *gin.Context) {
	var req dto.ImportPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if _, err := h.importPostsUseCase.Execute(c.Request.Context(), apppost.ImportPostsRequest{Path: req.Path}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UploadPosts 上传文件批量导入
// @Summary      批量导入(上传文件)
// @Tags         帖子导入
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "表格文件(.xlsx/.xlsm/.csv)"
// @Success      200 {object} response.Response{data=dto.ImportPostsResponse}
// @Failure      400 {object} response.Response "文件缺失或格式不支持"
// @Failure      500 {object} response.Response "导入失败"
// @Router       /api/posts/excel/upload [post]
func (h *PostHandler) UploadPosts(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "请上传file字段: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "读取上传文件失败"))
		return
	}
	defer file.Close()

	result, err := h.importUploadUseCase.Execute(c.Request.Context(), apppost.ImportUploadRequest{
		Filename: fileHeader.Filename,
		Body:     file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ImportPostsResponse{Imported: result.Imported})
}

// parseID 解析路径参数id,非法时直接写入错误响应
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, post.ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

func toPostResponse(p *apppost.PostResponse) *dto.PostResponse {
	return &dto.PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Name:      p.Name,
		Views:     p.Views,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt,
	}
}
