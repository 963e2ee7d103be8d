package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/persistence"
	"github.com/poib/testflow/pkg/store"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleStoreError maps store action failures onto problem responses:
// local precondition failures are the caller's fault, backend rejections
// keep their upstream status, everything else is a 502 towards the mapping
// backend.
func handleStoreError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrScenarioNotFound),
		errors.Is(err, store.ErrTemplateNotFound),
		errors.Is(err, store.ErrExecutionNotFound):
		return notFound(c, err.Error())

	case store.IsPreconditionError(err):
		return badRequest(c, err.Error())

	case persistence.IsNotFound(err):
		return notFound(c, err.Error())

	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			problem := problems.NewStatusProblem(fiber.StatusBadGateway).
				WithInstance(c.Path()).
				WithType("backend_error").
				WithDetail(apiErr.Error())

			return c.Status(fiber.StatusBadGateway).JSON(problem)
		}

		return internalError(c, err)
	}
}
