package model

type Attachment struct {
	Model
	ProjectID        uint   `gorm:"not null;index" json:"project_id"`
	Filename         string `gorm:"type:varchar(255);not null;uniqueIndex" json:"filename"`
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"original_filename"`
	FilePath         string `gorm:"type:varchar(500);not null" json:"-"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `gorm:"type:varchar(100)" json:"mime_type"`
	FileType         string `gorm:"type:varchar(20)" json:"file_type"`
	Storage          string `gorm:"type:varchar(10);not null" json:"storage"`
	UploadedByID     uint   `gorm:"not null" json:"uploaded_by_id"`
}
