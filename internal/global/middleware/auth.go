package middleware

import (
	"strings"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/global/sentry"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// loadAccount 角色和启用状态以数据库为准，令牌签发后可能已被修改
func loadAccount(id uint) (*model.User, *response.Error) {
	var u model.User
	err := database.DB.Select("id", "email", "role", "is_active").First(&u, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrTokenInvalid.WithTips("account no longer exists")
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	case !u.IsActive:
		return nil, response.ErrForbidden.WithTips("account is disabled")
	}
	return &u, nil
}

// Auth 校验 Bearer token 并加载账号，角色低于 minRole 时返回 403
func Auth(minRole model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.Fail(c, response.ErrUnauthorized.WithTips("missing bearer token"))
			return
		}

		claims, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		u, e := loadAccount(claims.UserID)
		if e != nil {
			response.Fail(c, e)
			return
		}
		claims.Role, claims.Email = u.Role, u.Email
		if claims.Role.Rank() < minRole.Rank() {
			response.Fail(c, response.ErrForbidden)
			return
		}

		c.Set(jwt.PayloadKey, claims)
		sentry.EnrichUser(c, claims.UserID, claims.Email, string(claims.Role))
		c.Next()
	}
}
