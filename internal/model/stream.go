package model

import "time"

type Stream struct {
	Model
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Year        int        `gorm:"not null" json:"year"`
	Semester    string     `gorm:"type:varchar(20)" json:"semester"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
}
