package similarity

import (
	"context"

	"capstone-guard/internal/model"

	"gorm.io/gorm"
)

// GormSource 从数据库读取已通过的项目作为候选
type GormSource struct {
	DB *gorm.DB
}

func (s GormSource) ApprovedCandidates(ctx context.Context, excludeID uint) ([]Candidate, error) {
	var rows []model.Project
	q := s.DB.WithContext(ctx).
		Select("id", "title", "description").
		Where("status = ?", model.StatusApproved)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Candidate, len(rows))
	for i, p := range rows {
		out[i] = Candidate{ID: p.ID, Title: p.Title, Description: p.Description}
	}
	return out, nil
}
