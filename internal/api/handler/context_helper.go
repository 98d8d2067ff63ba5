package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dgarcoe/award-planner-sub000/pkg/jwt"
	"github.com/dgarcoe/award-planner-sub000/pkg/response"
)

// MustGetCallsign 从 Gin 上下文中安全提取操作员呼号。
// 如果 JWT 中间件未正确注入 callsign，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCallsign(c *gin.Context) (string, bool) {
	v, exists := c.Get("callsign")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetIsAdmin 从 Gin 上下文中提取管理员标记，缺失时按普通操作员处理
func GetIsAdmin(c *gin.Context) bool {
	v, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	admin, ok := v.(bool)
	return ok && admin
}

// MustGetClaims 从 Gin 上下文中安全提取完整 JWT Claims
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}
