package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teachhub/backend/core/user"
)

type adminApi struct {
	svc user.ServiceInterface
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.ServiceInterface) {
	api := adminApi{svc: svc}

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/teachers/pending", api.pendingTeachers)
	ag.PUT("/teachers/:id/approve", api.approveTeacher)
}

// Handlers

func (api *adminApi) pendingTeachers(ctx echo.Context) error {
	teachers, err := api.svc.PendingTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pending teachers")
	}
	if teachers == nil {
		teachers = []user.User{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *adminApi) approveTeacher(ctx echo.Context) error {
	usr, err := api.svc.ApproveTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving teacher")
	}
	return ctx.JSON(http.StatusOK, usr)
}
