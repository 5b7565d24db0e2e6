package model

import "time"

// SimilarityRecord 每次检测都会整体替换，不做软删除
type SimilarityRecord struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	ProjectID             uint      `gorm:"not null;uniqueIndex:idx_similarity_pair" json:"project_id"`
	SimilarProjectID      uint      `gorm:"not null;uniqueIndex:idx_similarity_pair" json:"similar_project_id"`
	TitleSimilarity       float64   `json:"title_similarity"`
	DescriptionSimilarity float64   `json:"description_similarity"`
	OverallSimilarity     float64   `gorm:"index" json:"overall_similarity"`
	Algorithm             string    `gorm:"type:varchar(50)" json:"algorithm"`
	CalculatedAt          time.Time `json:"calculated_at"`

	SimilarProject *Project `gorm:"foreignKey:SimilarProjectID" json:"-"`
}
