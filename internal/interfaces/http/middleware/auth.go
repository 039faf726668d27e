package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"benovitz-content-api/internal/interfaces/http/dto"
)

// ClientIDKey 鉴权后写入 gin.Context 的调用方标识
const ClientIDKey = "client_id"

// AuthConfig 认证配置
type AuthConfig struct {
	// APIKeys 允许的静态 Bearer Token，为空时不启用认证
	APIKeys []string
	// SkipPaths 跳过认证的路径（精确匹配）
	SkipPaths []string
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/",
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// Auth 静态 Bearer Token 认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		idx := matchKey(keys, []byte(token))
		if idx < 0 {
			abortUnauthorized(c, "invalid api key")
			return
		}

		c.Set(ClientIDKey, "key-"+strconv.Itoa(idx))
		c.Next()
	}
}

// ClientID 返回调用方标识，未鉴权时使用客户端 IP
func ClientID(c *gin.Context) string {
	if id := c.GetString(ClientIDKey); id != "" {
		return id
	}
	return c.ClientIP()
}

// matchKey 常量时间比较，返回命中的下标，未命中返回 -1
func matchKey(keys [][]byte, token []byte) int {
	found := -1
	for i, k := range keys {
		if subtle.ConstantTimeCompare(k, token) == 1 && found < 0 {
			found = i
		}
	}
	return found
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	dto.AbortWithError(c, http.StatusUnauthorized, detail)
}
