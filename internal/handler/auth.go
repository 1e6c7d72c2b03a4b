package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/torrejavex-alt/sistema-asistencias/internal/auth"
	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

// Login handles POST /api/auth/login.
func (h *Handler) Login(issuer, signingKey string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario y contraseña son requeridos"})
			return
		}

		admin, err := h.repo.GetAdminByUsername(c.Request.Context(), req.Username)
		if errors.Is(err, roster.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !auth.CheckPassword(admin.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}

		token, err := auth.Issue(admin.ID, admin.Username, admin.NombreCompleto, issuer, signingKey, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":    token.Value,
			"username":        admin.Username,
			"nombre_completo": admin.NombreCompleto,
		})
	}
}

// Verify handles GET /api/auth/verify (behind AdminAuth).
func (h *Handler) Verify(c *gin.Context) {
	claimsAny, _ := c.Get("claims")
	claims, ok := claimsAny.(auth.Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}
	id, err := claims.AdminID()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Token inválido"})
		return
	}
	admin, err := h.repo.GetAdmin(c.Request.Context(), id)
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":        admin.Username,
		"nombre_completo": admin.NombreCompleto,
	})
}

// Register handles POST /api/auth/register (initial setup).
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username       string `json:"username"`
		Password       string `json:"password"`
		NombreCompleto string `json:"nombre_completo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario y contraseña son requeridos"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el administrador"})
		return
	}
	admin := roster.Admin{Username: req.Username, PasswordHash: hash, NombreCompleto: req.NombreCompleto}
	if err := h.repo.CreateAdmin(c.Request.Context(), &admin); err != nil {
		if errors.Is(err, roster.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario ya existe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el administrador"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Administrador creado exitosamente",
		"username": admin.Username,
	})
}
