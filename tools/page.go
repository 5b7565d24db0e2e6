package tools

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// GetPage 从查询参数 page、page_size 读取分页，返回页码、页大小和偏移量
func GetPage(c *gin.Context, defaultPageSize int) (page, pageSize, offset int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset = (page - 1) * pageSize
	return
}

// TotalPages 向上取整
func TotalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

type PageResp[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

func NewPageResp[T any](list []T, total int64, page, pageSize int) PageResp[T] {
	if list == nil {
		list = []T{}
	}
	return PageResp[T]{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
