package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const adminSessionKey = "admin_authenticated"

// AdminGate 保护后台接口：未设置管理员密码时放行，设置后需先登录。
type AdminGate struct {
	hash []byte
}

// NewAdminGate 根据 ADMIN_PASSWORD 构造 AdminGate。
// 传入的值若已经是 bcrypt 哈希则直接使用，否则在启动时计算哈希，明文不会保留。
func NewAdminGate(password string) (*AdminGate, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return &AdminGate{}, nil
	}
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return &AdminGate{hash: []byte(password)}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminGate{hash: hash}, nil
}

// Enabled 报告是否配置了管理员密码。
func (g *AdminGate) Enabled() bool {
	return len(g.hash) > 0
}

// Login 校验密码并写入会话
func (g *AdminGate) Login(c *gin.Context) {
	if !g.Enabled() {
		c.JSON(http.StatusOK, gin.H{"message": "Admin gate disabled"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !bindJSON(c, &req, "Invalid login payload") {
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(req.Password)); err != nil {
		log.Printf("[ADMIN] failed login (request %s)", requestID(c))
		respondError(c, http.StatusUnauthorized, "Invalid password")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(adminSessionKey, true)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// Logout 清除会话
func (g *AdminGate) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// AuthRequired 是一个简单的认证中间件
func (g *AdminGate) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Enabled() {
			c.Next()
			return
		}
		session := sessions.Default(c)
		if authenticated, _ := session.Get(adminSessionKey).(bool); !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
