package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/progress"
)

type lessonApi struct {
	svc         course.ServiceInterface
	progressSvc progress.ServiceInterface
	validate    *validator.Validate
}

func registerLessonAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	optJwt echo.MiddlewareFunc,
	svc course.ServiceInterface,
	progressSvc progress.ServiceInterface,
	validate *validator.Validate,
) {
	api := lessonApi{
		svc:         svc,
		progressSvc: progressSvc,
		validate:    validate,
	}

	lg := g.Group("/lessons")

	// public endpoint
	lg.GET("/:id", api.retrieve, optJwt)

	// authed endpoints
	lg.POST("", api.create, jwt, teacherOrAdminMiddleware())
	lg.POST("/:id/complete", api.complete, jwt)
}

// Handlers

func (api *lessonApi) create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var data course.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.GetByID(reqCtx, data.CourseID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !course.CanCreateLesson(crs, claims.Subject) {
		return errHttpForbidden
	}

	lsn, err := api.svc.CreateLesson(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	lsn, err := api.svc.GetLesson(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lesson by ID")
	}

	view, err := api.progressSvc.LessonDetail(reqCtx, lsn, getContextIdentity(ctx))
	if err != nil {
		return errors.Wrap(err, "projecting lesson detail")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *lessonApi) complete(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cmp, err := api.progressSvc.RecordCompletion(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording completion")
	}
	return ctx.JSON(http.StatusOK, cmp)
}
