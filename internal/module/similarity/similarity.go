package similarity

import (
	"strings"
	"time"
	"unicode/utf8"

	"capstone-guard/config"
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type LiveCheckReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// ExcludeID 编辑已有项目时排除自身
	ExcludeID uint `json:"exclude_id"`
}

type LiveCheckResp struct {
	Checked bool    `json:"checked"`
	Count   int     `json:"count"`
	Matches []Match `json:"matches"`
}

// LiveCheck 用户输入时的实时查重，文本过短时不调用 embedding API
func LiveCheck(c *gin.Context) {
	var req LiveCheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	cfg := config.Get().LiveCheck
	title, desc := strings.TrimSpace(req.Title), strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(title) < cfg.MinTitleLength || utf8.RuneCountInString(desc) < cfg.MinDescriptionLength {
		response.Success(c, LiveCheckResp{Checked: false, Matches: []Match{}})
		return
	}

	matches, _ := Default.FindSimilar(c.Request.Context(), Query{
		Title:       title,
		Description: desc,
		ExcludeID:   req.ExcludeID,
		Trigger:     "live",
	})
	resp := LiveCheckResp{Checked: true, Count: len(matches), Matches: matches}
	if len(resp.Matches) > cfg.MaxResults {
		resp.Matches = resp.Matches[:cfg.MaxResults]
	}
	if resp.Matches == nil {
		resp.Matches = []Match{}
	}
	response.Success(c, resp)
}

// RecordView 相似度以百分比展示
type RecordView struct {
	SimilarProjectID      uint      `json:"similar_project_id"`
	Title                 string    `json:"title"`
	Status                string    `json:"status"`
	TitleSimilarity       float64   `json:"title_similarity"`
	DescriptionSimilarity float64   `json:"description_similarity"`
	OverallSimilarity     float64   `json:"overall_similarity"`
	Algorithm             string    `json:"algorithm"`
	CalculatedAt          time.Time `json:"calculated_at"`
}

// LoadRecords 读取项目已保存的相似记录，按 overall 降序
func LoadRecords(db *gorm.DB, projectID uint) ([]RecordView, error) {
	var records []model.SimilarityRecord
	err := db.Preload("SimilarProject").
		Where("project_id = ?", projectID).
		Order("overall_similarity DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]RecordView, 0, len(records))
	for _, r := range records {
		v := RecordView{
			SimilarProjectID:      r.SimilarProjectID,
			TitleSimilarity:       Percent(r.TitleSimilarity),
			DescriptionSimilarity: Percent(r.DescriptionSimilarity),
			OverallSimilarity:     Percent(r.OverallSimilarity),
			Algorithm:             r.Algorithm,
			CalculatedAt:          r.CalculatedAt,
		}
		// 相似项目可能已被删除
		if r.SimilarProject != nil {
			v.Title = r.SimilarProject.Title
			v.Status = string(r.SimilarProject.Status)
		}
		out = append(out, v)
	}
	return out, nil
}

// ListRecords 项目所有者或审阅者查看相似记录
func ListRecords(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}

	var project model.Project
	err := database.DB.Select("id", "user_id").First(&project, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("project not found"))
		return
	case err != nil:
		log.Error("查询项目失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if project.UserID != claims.UserID && !claims.Role.IsStaff() {
		response.Fail(c, response.ErrForbidden)
		return
	}

	records, err := LoadRecords(database.DB, id)
	if err != nil {
		log.Error("查询相似记录失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, records)
}
