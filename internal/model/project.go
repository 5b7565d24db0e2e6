package model

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	StatusPending     ProjectStatus = "pending"
	StatusApproved    ProjectStatus = "approved"
	StatusRejected    ProjectStatus = "rejected"
	StatusDuplicate   ProjectStatus = "duplicate"
	StatusUnderReview ProjectStatus = "under_review"
)

var projectStatuses = []ProjectStatus{StatusPending, StatusApproved, StatusRejected, StatusDuplicate, StatusUnderReview}

// ParseProjectStatus 不区分大小写
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range projectStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Title 例如 under_review -> Under Review
func (s ProjectStatus) Title() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type Project struct {
	Model
	Title              string        `gorm:"type:varchar(200);not null;index" json:"title"`
	Description        string        `gorm:"type:text;not null" json:"description"`
	UserID             uint          `gorm:"not null;index" json:"user_id"`
	StreamID           uint          `gorm:"not null;index" json:"stream_id"`
	Status             ProjectStatus `gorm:"type:varchar(20);default:pending;not null;index" json:"status"`
	Technologies       string        `gorm:"type:varchar(500)" json:"technologies"`
	GithubURL          string        `gorm:"type:varchar(255)" json:"github_url"`
	DemoURL            string        `gorm:"type:varchar(255)" json:"demo_url"`
	DocumentationURL   string        `gorm:"type:varchar(255)" json:"documentation_url"`
	IsFlaggedDuplicate bool          `gorm:"default:false;not null" json:"is_flagged_duplicate"`
	DuplicateOfID      *uint         `json:"duplicate_of_id"`
	SimilarityScore    *float64      `json:"similarity_score"`
	ReviewedByID       *uint         `json:"reviewed_by_id"`
	ReviewedAt         *time.Time    `json:"reviewed_at"`
	ReviewNotes        string        `gorm:"type:text" json:"review_notes"`
	SubmittedAt        time.Time     `gorm:"index" json:"submitted_at"`

	Author   *User   `gorm:"foreignKey:UserID" json:"-"`
	Stream   *Stream `gorm:"foreignKey:StreamID" json:"-"`
	Reviewer *User   `gorm:"foreignKey:ReviewedByID" json:"-"`
}
