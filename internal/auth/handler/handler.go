package handler

import (
	"net/http"

	"polleria_backend/internal/auth/repository"
	"polleria_backend/internal/auth/service"
	"polleria_backend/platform/httpkit"
	"polleria_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type createUserRequest struct {
	Name     string `json:"nombre" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"rol" validate:"required,oneof=admin staff"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	User        userResponse `json:"user"`
}

func toUserResponse(u repository.User) userResponse {
	return userResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

func (h *Handler) RegisterPublic(rg *gin.RouterGroup, limiter *httpkit.AuthRateLimiter) {
	rg.POST("/auth/login", limiter.RateLimit(), h.login)
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/users", h.createUser)
	rg.GET("/users", h.listUsers)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, loginResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt.Unix(),
		User:        toUserResponse(session.User),
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := httpkit.MustGetUserID(c)
	user, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toUserResponse(user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpkit.OK(c, out)
}
