// Package middleware chứa các middleware dùng chung của API.
package middleware

import (
	"strings"

	"meta_forms/internal/common"
	"meta_forms/internal/global"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware kiểm tra bearer token JWT và set user_id vào locals.
// Việc cấp/thu hồi session nằm ngoài hệ thống này; ở đây chỉ xác thực
// chữ ký và hạn của token.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, common.MsgTokenMissing)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return unauthorized(c, common.MsgTokenMissing)
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, common.ErrTokenInvalid
			}
			return []byte(global.ServerConfig.JwtSecret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, common.MsgTokenInvalid)
		}

		if userID, ok := claims["user_id"].(string); ok {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, message string) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(common.StatusUnauthorized).JSON(fiber.Map{
		"code":    common.ErrCodeAuthToken.Code,
		"message": message,
		"status":  "error",
	})
}
