package similarity

import (
	"time"

	"capstone-guard/internal/model"

	"gorm.io/gorm"
)

// MarkProject 根据检测结果设置项目的查重标记，无匹配时清除旧标记
func MarkProject(p *model.Project, matches []Match) {
	if len(matches) == 0 {
		p.IsFlaggedDuplicate = false
		p.SimilarityScore = nil
		p.DuplicateOfID = nil
		return
	}
	best := matches[0]
	score := best.OverallSimilarity
	id := best.ProjectID
	p.IsFlaggedDuplicate = true
	p.SimilarityScore = &score
	p.DuplicateOfID = &id
}

// Records 取前 limit 个匹配生成相似记录
func Records(projectID uint, matches []Match, limit int, now time.Time) []model.SimilarityRecord {
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.SimilarityRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, model.SimilarityRecord{
			ProjectID:             projectID,
			SimilarProjectID:      m.ProjectID,
			TitleSimilarity:       m.TitleSimilarity,
			DescriptionSimilarity: m.DescriptionSimilarity,
			OverallSimilarity:     m.OverallSimilarity,
			Algorithm:             Algorithm,
			CalculatedAt:          now,
		})
	}
	return out
}

// ReplaceRecords 删除项目原有的相似记录并写入新的记录，需在事务中调用
func ReplaceRecords(tx *gorm.DB, projectID uint, matches []Match, limit int) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&model.SimilarityRecord{}).Error; err != nil {
		return err
	}
	records := Records(projectID, matches, limit, time.Now())
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}
