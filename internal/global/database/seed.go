package database

import (
	"errors"
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

// DefaultStreams 空库启动时写入的届别
func DefaultStreams() []model.Stream {
	return []model.Stream{
		{Name: "2024 Stream A", Year: 2024, Semester: "Spring", Description: "Capstone projects for the 2024 spring cohort.",
			StartDate: date(2024, time.January, 15), EndDate: date(2024, time.June, 30), IsActive: true},
		{Name: "2024 Stream B", Year: 2024, Semester: "Fall", Description: "Capstone projects for the 2024 fall cohort.",
			StartDate: date(2024, time.August, 15), EndDate: date(2024, time.December, 20), IsActive: true},
		{Name: "2023 Stream A", Year: 2023, Semester: "Spring", Description: "Archived projects from the 2023 spring cohort.",
			StartDate: date(2023, time.January, 15), EndDate: date(2023, time.June, 30), IsActive: false},
		{Name: "2023 Stream B", Year: 2023, Semester: "Fall", Description: "Archived projects from the 2023 fall cohort.",
			StartDate: date(2023, time.August, 15), EndDate: date(2023, time.December, 20), IsActive: false},
	}
}

// Seed 写入默认届别和初始管理员，可重复执行
func Seed(db *gorm.DB, admin config.Admin) error {
	log := logger.New("Database")

	var count int64
	if err := db.Model(&model.Stream{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		streams := DefaultStreams()
		if err := db.Create(&streams).Error; err != nil {
			return err
		}
		log.Info("已写入默认届别", "count", len(streams))
	}

	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	var user model.User
	err := db.Where("email = ?", admin.Email).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	user = model.User{
		Email:      admin.Email,
		Password:   tools.PasswordEncrypt(admin.Password),
		FullName:   admin.FullName,
		Role:       model.RoleAdmin,
		IsActive:   true,
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Info("已创建初始管理员", "email", admin.Email)
	return nil
}
