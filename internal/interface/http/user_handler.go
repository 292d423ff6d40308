package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/userhub/user-service/internal/application"
	"github.com/userhub/user-service/pkg/response"
	"github.com/userhub/user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Age   *int   `json:"age" binding:"required,gte=0"`
}

// userResource is a UserResponse plus navigational links attached at the
// boundary.
type userResource struct {
	userapp.UserResponse
	Links map[string]string `json:"_links,omitempty"`
}

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d", id)
}

func resource(u userapp.UserResponse) userResource {
	return userResource{
		UserResponse: u,
		Links: map[string]string{
			"self":      userPath(u.ID),
			"all-users": "/api/users",
			"update":    userPath(u.ID),
			"delete":    userPath(u.ID),
		},
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

// serviceError maps domain failures onto status codes: missing ids are 404,
// email conflicts are 409, anything else is a 500.
func (h *UserHandler) serviceError(c *gin.Context, err error) {
	var nf *userapp.NotFoundError
	var cf *userapp.ConflictError
	switch {
	case errors.As(err, &nf):
		response.Error[any](c, http.StatusNotFound, nf.Error(), nil)
	case errors.As(err, &cf):
		response.Error[any](c, http.StatusConflict, cf.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	out := make([]userResource, 0, len(users))
	for _, u := range users {
		out = append(out, resource(u))
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{
		"count": len(out),
		"_links": map[string]string{
			"self":        "/api/users",
			"create-user": "/api/users",
		},
	})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resource(u), "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   *req.Age,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.Header("Location", userPath(u.ID))
	response.Success(c, http.StatusCreated, resource(u), "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, userapp.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   *req.Age,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resource(u), "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
