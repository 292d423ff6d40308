package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/userhub/user-service/internal/interface/http"
)

// UserModule wires user CRUD handlers into routes under the given
// RouterGroup (usually /api):
//
//	GET    /users      list users
//	GET    /users/:id  fetch one user
//	POST   /users      create (201 + Location)
//	PUT    /users/:id  update
//	DELETE /users/:id  delete (204)
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.GetByID)
		users.POST("", m.Handler.Create)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
