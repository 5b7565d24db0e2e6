package stream

import (
	"strings"
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type View struct {
	model.Stream
	ProjectCount int64 `json:"project_count"`
}

type countRow struct {
	StreamID uint
	Count    int64
}

// projectCounts 统计各方向下未删除的项目数
func projectCounts(db *gorm.DB) (map[uint]int64, error) {
	var rows []countRow
	err := db.Model(&model.Project{}).
		Select("stream_id, COUNT(*) AS count").
		Group("stream_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.StreamID] = r.Count
	}
	return counts, nil
}

func newViews(list []model.Stream, counts map[uint]int64) []View {
	out := make([]View, len(list))
	for i, s := range list {
		out[i] = View{Stream: s, ProjectCount: counts[s.ID]}
	}
	return out
}

// ListStreams 按名称排序，active=true 时只返回启用的方向
func ListStreams(c *gin.Context) {
	q := database.DB.Model(&model.Stream{})
	if tools.QueryBool(c, "active") {
		q = q.Where("is_active = ?", true)
	}
	var list []model.Stream
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		log.Error("查询方向失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	counts, err := projectCounts(database.DB)
	if err != nil {
		log.Error("统计项目数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, newViews(list, counts))
}

type StreamReq struct {
	Name        *string `json:"name"`
	Year        *int    `json:"year" binding:"omitempty,min=2000,max=2100"`
	Semester    *string `json:"semester" binding:"omitempty,max=20"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsActive    *bool   `json:"is_active"`
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errors.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// changes 生成更新字段，create 为 true 时要求名称和年份
func (r StreamReq) changes(create bool) (map[string]any, error) {
	changes := map[string]any{}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" || len(name) > 100 {
			return nil, errors.New("name must be 1 to 100 characters")
		}
		changes["name"] = name
	} else if create {
		return nil, errors.New("name is required")
	}
	if r.Year != nil {
		changes["year"] = *r.Year
	} else if create {
		return nil, errors.New("year is required")
	}
	if r.Semester != nil {
		changes["semester"] = strings.TrimSpace(*r.Semester)
	}
	if r.Description != nil {
		changes["description"] = strings.TrimSpace(*r.Description)
	}
	for key, v := range map[string]*string{"start_date": r.StartDate, "end_date": r.EndDate} {
		if v == nil {
			continue
		}
		t, err := parseDate(*v)
		if err != nil {
			return nil, err
		}
		changes[key] = t
	}
	if start, ok := changes["start_date"].(*time.Time); ok && start != nil {
		if end, ok := changes["end_date"].(*time.Time); ok && end != nil && end.Before(*start) {
			return nil, errors.New("end_date must not be before start_date")
		}
	}
	if r.IsActive != nil {
		changes["is_active"] = *r.IsActive
	} else if create {
		changes["is_active"] = true
	}
	return changes, nil
}

// newStream 由校验后的字段构造方向
func newStream(changes map[string]any) model.Stream {
	s := model.Stream{
		Name:     changes["name"].(string),
		Year:     changes["year"].(int),
		IsActive: changes["is_active"].(bool),
	}
	s.Semester, _ = changes["semester"].(string)
	s.Description, _ = changes["description"].(string)
	s.StartDate, _ = changes["start_date"].(*time.Time)
	s.EndDate, _ = changes["end_date"].(*time.Time)
	return s
}

func CreateStream(c *gin.Context) {
	var req StreamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	changes, err := req.changes(true)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	s := newStream(changes)
	if err := database.DB.Create(&s).Error; err != nil {
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("stream name already exists"))
			return
		}
		log.Error("创建方向失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("方向创建成功", "stream_id", s.ID, "name", s.Name)
	response.Success(c, View{Stream: s})
}

func UpdateStream(c *gin.Context) {
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid stream id"))
		return
	}
	var req StreamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	changes, err := req.changes(false)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	var s model.Stream
	err = database.DB.First(&s, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("stream not found"))
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if len(changes) > 0 {
		if err := database.DB.Model(&model.Stream{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			if database.IsDuplicateKey(err) {
				response.Fail(c, response.ErrAlreadyExists.WithTips("stream name already exists"))
				return
			}
			log.Error("更新方向失败", "error", err, "stream_id", id)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if err := database.DB.First(&s, id).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}
	response.Success(c, View{Stream: s})
}
