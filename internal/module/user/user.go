package user

import (
	"strings"
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RegisterReq struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 新用户默认为学生
func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	for _, err := range []error{
		validateEmail(req.Email),
		validateFullName(req.FullName),
		validatePasswordStrength(req.Password),
	} {
		if err != nil {
			log.Warn("注册信息校验失败", "error", err, "email", req.Email)
			response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
			return
		}
	}

	var count int64
	if err := database.DB.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if count > 0 {
		response.Fail(c, response.ErrAlreadyExists.WithTips("email already registered"))
		return
	}

	user := model.User{
		Email:    req.Email,
		Password: tools.PasswordEncrypt(req.Password),
		FullName: req.FullName,
		Role:     model.RoleStudent,
		IsActive: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		// 并发注册时由唯一索引兜底
		if database.IsDuplicateKey(err) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("email already registered"))
			return
		}
		log.Error("创建用户失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "user_id", user.ID, "email", user.Email)
	response.Success(c, user)
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	var user model.User
	err := database.DB.Where("email = ?", req.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "email", req.Email)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "email", req.Email)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}
	if !user.IsActive {
		log.Warn("账号已停用", "user_id", user.ID)
		response.Fail(c, response.ErrForbidden.WithTips("account is disabled"))
		return
	}

	now := time.Now()
	if err := database.DB.Model(&user).Update("last_login", now).Error; err != nil {
		log.Error("更新登录时间失败", "error", err, "user_id", user.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	user.LastLogin = &now

	token, err := jwt.CreateToken(jwt.Payload{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		log.Error("签发 token 失败", "error", err, "user_id", user.ID)
		response.Fail(c, response.ErrServer.WithOrigin(err))
		return
	}

	log.Info("用户登录成功", "user_id", user.ID, "role", user.Role)
	response.Success(c, LoginResp{Token: token, User: user})
}

func currentUser(c *gin.Context) (*model.User, *response.Error) {
	claims, _ := jwt.GetUserPayload(c)
	var user model.User
	err := database.DB.First(&user, claims.UserID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("user not found")
	case err != nil:
		log.Error("查询用户失败", "error", err, "user_id", claims.UserID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &user, nil
}

func GetMe(c *gin.Context) {
	user, e := currentUser(c)
	if e != nil {
		response.Fail(c, e)
		return
	}
	response.Success(c, user)
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 验证旧密码后更新，新密码规则与注册一致
func ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	user, e := currentUser(c)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "user_id", user.ID)
		response.Fail(c, response.ErrInvalidPassword.WithTips("current password is incorrect"))
		return
	}

	if err := database.DB.Model(user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "user_id", user.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("用户修改密码成功", "user_id", user.ID)
	response.Success(c)
}

type ProfileReq struct {
	FullName       *string `json:"full_name"`
	Bio            *string `json:"bio" binding:"omitempty,max=2000"`
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,max=255"`
}

func (r ProfileReq) changes() (map[string]any, error) {
	changes := map[string]any{}
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		if err := validateFullName(name); err != nil {
			return nil, err
		}
		changes["full_name"] = name
	}
	if r.Bio != nil {
		changes["bio"] = strings.TrimSpace(*r.Bio)
	}
	if r.ProfilePicture != nil {
		changes["profile_picture"] = strings.TrimSpace(*r.ProfilePicture)
	}
	return changes, nil
}

func UpdateProfile(c *gin.Context) {
	var req ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	changes, err := req.changes()
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	user, e := currentUser(c)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if len(changes) > 0 {
		if err := database.DB.Model(&model.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
			log.Error("更新资料失败", "error", err, "user_id", user.ID)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if err := database.DB.First(user, user.ID).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}
	response.Success(c, user)
}
