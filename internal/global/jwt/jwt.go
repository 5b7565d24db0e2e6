package jwt

import (
	"time"

	"capstone-guard/config"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// PayloadKey 认证通过后 Claims 在 gin.Context 中的键
const PayloadKey = "payload"

type Payload struct {
	UserID uint       `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// CreateToken 使用 HS256 签发 token，有效期取自配置
func CreateToken(payload Payload) (string, error) {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
			Issuer:    "capstone-guard",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

// ParseToken 签名无效、算法不符或已过期都返回 false
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !t.Valid {
		return nil, false
	}
	return claims, true
}

func GetUserPayload(c *gin.Context) (*Claims, bool) {
	v, _ := c.Get(PayloadKey)
	claims, ok := v.(*Claims)
	return claims, ok
}
