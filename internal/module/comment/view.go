package comment

import (
	"time"

	"capstone-guard/internal/model"

	"gorm.io/gorm"
)

type View struct {
	ID        uint             `json:"id"`
	ProjectID uint             `json:"project_id"`
	ParentID  *uint            `json:"parent_id"`
	Content   string           `json:"content"`
	IsEdited  bool             `json:"is_edited"`
	IsDeleted bool             `json:"is_deleted"`
	Author    *model.UserBrief `json:"author,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Replies   []View           `json:"replies,omitempty"`
}

func NewView(c *model.Comment) View {
	v := View{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		ParentID:  c.ParentID,
		Content:   c.DisplayContent(),
		IsEdited:  c.IsEdited,
		IsDeleted: c.IsDeleted,
		Author:    c.Author.Brief(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i := range c.Replies {
		v.Replies = append(v.Replies, NewView(&c.Replies[i]))
	}
	return v
}

// LoadThreads 顶层评论按时间倒序，回复按时间正序，均不含已删除的评论；limit 为 0 时不分页
func LoadThreads(db *gorm.DB, projectID uint, offset, limit int) ([]View, int64, error) {
	q := db.Model(&model.Comment{}).
		Where("project_id = ? AND parent_id IS NULL AND is_deleted = ?", projectID, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Author").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_deleted = ?", false).Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author").
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var list []model.Comment
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}

	out := make([]View, len(list))
	for i := range list {
		out[i] = NewView(&list[i])
	}
	return out, total, nil
}
