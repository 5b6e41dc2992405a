package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/progress"
)

type courseApi struct {
	svc         course.ServiceInterface
	progressSvc progress.ServiceInterface
	validate    *validator.Validate
}

func registerCourseAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	optJwt echo.MiddlewareFunc,
	svc course.ServiceInterface,
	progressSvc progress.ServiceInterface,
	validate *validator.Validate,
) {
	api := courseApi{
		svc:         svc,
		progressSvc: progressSvc,
		validate:    validate,
	}

	cg := g.Group("/courses")

	// public endpoints; progress is projected for the viewer when a token is present
	cg.GET("", api.query, optJwt)
	cg.GET("/:id", api.retrieve, optJwt)

	// authed endpoints
	cg.POST("", api.create, jwt, teacherOrAdminMiddleware())
	cg.PUT("/:id", api.update, jwt)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	crs, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}

	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.QueryAll(reqCtx, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	courseIDs := make([]string, 0, len(courses))
	for _, crs := range courses {
		courseIDs = append(courseIDs, crs.ID)
	}
	counts, err := api.svc.LessonCounts(reqCtx, courseIDs)
	if err != nil {
		return errors.Wrap(err, "counting lessons")
	}

	summaries, err := api.progressSvc.CourseSummaries(reqCtx, courses, counts, getContextIdentity(ctx))
	if err != nil {
		return errors.Wrap(err, "projecting course summaries")
	}
	if summaries == nil {
		summaries = []progress.CourseSummary{}
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	crs, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}

	lessons, err := api.svc.Lessons(reqCtx, crs.ID)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}

	detail, err := api.progressSvc.CourseDetail(reqCtx, crs, lessons, getContextIdentity(ctx))
	if err != nil {
		return errors.Wrap(err, "projecting course detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *courseApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	crs, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
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
	// only the course owner may mutate it; admins get no override
	if !course.CanMutate(crs, claims.Subject, claims.Role) {
		return errHttpForbidden
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(crs, api.validate); err != nil {
		return err
	}

	crs, err = api.svc.Update(reqCtx, crs, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}
