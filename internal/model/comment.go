package model

type Comment struct {
	Model
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	ParentID  *uint  `gorm:"index" json:"parent_id"`
	Content   string `gorm:"type:text;not null" json:"content"`
	IsEdited  bool   `gorm:"default:false;not null" json:"is_edited"`
	IsDeleted bool   `gorm:"default:false;not null" json:"is_deleted"`

	Author  *User     `gorm:"foreignKey:UserID" json:"-"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"-"`
}

const DeletedCommentContent = "[Deleted]"

// DisplayContent 已删除的评论不展示原文
func (c *Comment) DisplayContent() string {
	if c.IsDeleted {
		return DeletedCommentContent
	}
	return c.Content
}
