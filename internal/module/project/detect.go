package project

import (
	"context"
	"fmt"

	"capstone-guard/config"
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/notification"
	"capstone-guard/internal/module/similarity"

	"gorm.io/gorm"
)

func duplicateMessage(n int, title string) string {
	return fmt.Sprintf("We found %d project(s) similar to \"%s\". Please review them before proceeding.", n, title)
}

// detect 查重并保存结果。embedding 调用放在事务之外，避免长时间持有连接。
func detect(ctx context.Context, p *model.Project, trigger string) ([]similarity.Match, error) {
	matches, outcome := similarity.Default.FindSimilar(ctx, similarity.Query{
		Title:       p.Title,
		Description: p.Description,
		ExcludeID:   p.ID,
		Trigger:     trigger,
	})
	// 检测未完成时保留原有标记和记录
	if !outcome.Completed() {
		log.Warn("查重未完成，保留已有结果", "project_id", p.ID, "trigger", trigger)
		return nil, nil
	}
	// 首次提交且没有匹配时无需写库
	if len(matches) == 0 && trigger == "submit" {
		return nil, nil
	}

	similarity.MarkProject(p, matches)
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Project{}).Where("id = ?", p.ID).Updates(map[string]any{
			"is_flagged_duplicate": p.IsFlaggedDuplicate,
			"similarity_score":     p.SimilarityScore,
			"duplicate_of_id":      p.DuplicateOfID,
		}).Error
		if err != nil {
			return err
		}
		if err := similarity.ReplaceRecords(tx, p.ID, matches, config.Get().Similarity.MaxRecords); err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		return notification.Send(tx, p.UserID, "Similar Projects Found",
			duplicateMessage(len(matches), p.Title), model.NotifyDuplicateWarning, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
