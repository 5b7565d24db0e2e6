package dashboard

import (
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/notification"
	"capstone-guard/internal/module/project"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	myProjectsLimit     = 5
	recentProjectsLimit = 10
)

type Resp struct {
	TotalProjects       int64          `json:"total_projects"`
	ApprovedProjects    int64          `json:"approved_projects"`
	PendingProjects     int64          `json:"pending_projects"`
	TotalStreams        int64          `json:"total_streams"`
	MyProjects          []project.View `json:"my_projects"`
	RecentProjects      []project.View `json:"recent_projects"`
	UnreadNotifications int64          `json:"unread_notifications"`
}

func latest(db *gorm.DB, limit int) ([]project.View, error) {
	var list []model.Project
	err := db.Preload("Author").Preload("Stream").
		Order("submitted_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return project.NewViews(list), nil
}

// load 汇总首页数据，最近提交的项目只对审阅者和管理员可见
func load(db *gorm.DB, claims *jwt.Claims) (*Resp, error) {
	resp := &Resp{RecentProjects: []project.View{}}
	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&resp.TotalProjects, db.Model(&model.Project{})},
		{&resp.ApprovedProjects, db.Model(&model.Project{}).Where("status = ?", model.StatusApproved)},
		{&resp.PendingProjects, db.Model(&model.Project{}).Where("status = ?", model.StatusPending)},
		{&resp.TotalStreams, db.Model(&model.Stream{})},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var err error
	if resp.MyProjects, err = latest(db.Where("user_id = ?", claims.UserID), myProjectsLimit); err != nil {
		return nil, err
	}
	if claims.Role.IsStaff() {
		if resp.RecentProjects, err = latest(db, recentProjectsLimit); err != nil {
			return nil, err
		}
	}
	if resp.UnreadNotifications, err = notification.UnreadCount(db, claims.UserID); err != nil {
		return nil, err
	}
	return resp, nil
}

func GetDashboard(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	resp, err := load(database.DB, claims)
	if err != nil {
		log.Error("加载首页数据失败", "error", err, "user_id", claims.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, resp)
}
