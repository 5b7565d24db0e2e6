package project

import (
	"fmt"
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/similarity"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
)

type exportRow struct {
	ID           uint       `excel:"ID"`
	Title        string     `excel:"Title"`
	Author       string     `excel:"Author"`
	Email        string     `excel:"Email"`
	Stream       string     `excel:"Stream"`
	Status       string     `excel:"Status"`
	Technologies string     `excel:"Technologies"`
	Flagged      string     `excel:"Flagged Duplicate"`
	Similarity   *float64   `excel:"Similarity (%)"`
	DuplicateOf  *uint      `excel:"Duplicate Of"`
	SubmittedAt  time.Time  `excel:"Submitted At"`
	ReviewedAt   *time.Time `excel:"Reviewed At"`
	ReviewNotes  string     `excel:"Review Notes"`
}

func toExportRow(p *model.Project) exportRow {
	row := exportRow{
		ID:           p.ID,
		Title:        p.Title,
		Status:       p.Status.Title(),
		Technologies: p.Technologies,
		Flagged:      "No",
		DuplicateOf:  p.DuplicateOfID,
		SubmittedAt:  p.SubmittedAt,
		ReviewedAt:   p.ReviewedAt,
		ReviewNotes:  p.ReviewNotes,
	}
	if p.IsFlaggedDuplicate {
		row.Flagged = "Yes"
	}
	if p.Author != nil {
		row.Author, row.Email = p.Author.FullName, p.Author.Email
	}
	if p.Stream != nil {
		row.Stream = p.Stream.Name
	}
	if p.SimilarityScore != nil {
		pct := similarity.Percent(*p.SimilarityScore)
		row.Similarity = &pct
	}
	return row
}

// ExportProjects 按列表相同的筛选条件导出 Excel
func ExportProjects(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	var req ListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var list []model.Project
	err := req.apply(database.DB.Model(&model.Project{}), claims.UserID).
		Preload("Author").Preload("Stream").
		Order("submitted_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		log.Error("查询导出项目失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]exportRow, len(list))
	for i := range list {
		rows[i] = toExportRow(&list[i])
	}
	filename := fmt.Sprintf("projects_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := tools.WriteExcel(c, filename, "Projects", rows); err != nil {
		log.Error("导出 Excel 失败", "error", err)
		response.Fail(c, response.ErrServer.WithOrigin(err))
		return
	}
	log.Info("项目导出成功", "count", len(rows), "user_id", claims.UserID)
}
