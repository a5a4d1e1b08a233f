package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/http/middleware"
	"contentapi/internal/model"
	"contentapi/internal/service"
)

// ListContents godoc
// @Summary      List content
// @Description  Category filter AND search, ordered by sort. Unknown sort keys keep stored order.
// @Tags         contents
// @Produce      json
// @Param        search    query     string  false  "case-insensitive text in title, content or tags"
// @Param        category  query     string  false  "exact category"
// @Param        sort      query     string  false  "newest, oldest, title or modified"
// @Success      200       {object}  contentListResponse
// @Router       /contents [get]
func ListContents(svc service.ContentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items := svc.Query(service.Query{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Sort:     model.SortKey(c.Query("sort")),
		})

		res := contentListResponse{
			Data:  make([]contentView, len(items)),
			Total: len(items),
		}
		for i, item := range items {
			res.Data[i] = newContentView(item)
		}
		return c.JSON(res)
	}
}

// GetContent godoc
// @Summary   Get content by ID
// @Tags      contents
// @Produce   json
// @Param     id   path      string  true  "content ID"
// @Success   200  {object}  contentView
// @Failure   404  {object}  errorPayload
// @Router    /contents/{id} [get]
func GetContent(svc service.ContentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, ok := svc.GetByID(c.Params("id"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "content not found")
		}
		return c.JSON(newContentView(item))
	}
}

// CreateContent godoc
// @Summary      Create content
// @Description  Title is required. Category, status and priority default to document, draft and low.
// @Tags         contents
// @Accept       json
// @Produce      json
// @Param        body  body      createContentRequest  true  "new content"
// @Success      201   {object}  contentView
// @Failure      400   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /contents [post]
func CreateContent(svc service.ContentRepository, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createContentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := req.normalize(); err != nil {
			return writeRequestError(c, err)
		}

		item, err := svc.Create(c.UserContext(), req.fields())
		if err != nil {
			return writeInternal(c, logger, "create_content_failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(newContentView(item))
	}
}

// UpdateContent godoc
// @Summary      Update content
// @Description  Shallow merge: only fields present in the body change.
// @Tags         contents
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "content ID"
// @Param        body  body      updateContentRequest  true  "changed fields"
// @Success      200   {object}  contentView
// @Failure      400   {object}  errorPayload
// @Failure      404   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /contents/{id} [patch]
func UpdateContent(svc service.ContentRepository, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateContentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := req.normalize(); err != nil {
			return writeRequestError(c, err)
		}

		item, ok, err := svc.Update(c.UserContext(), c.Params("id"), req.fields())
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "content not found")
		}
		if err != nil {
			return writeInternal(c, logger, "update_content_failed", err)
		}
		return c.JSON(newContentView(item))
	}
}

// DeleteContent godoc
// @Summary   Delete content
// @Tags      contents
// @Param     id   path  string  true  "content ID"
// @Success   204
// @Failure   404  {object}  errorPayload
// @Failure   500  {object}  errorPayload
// @Router    /contents/{id} [delete]
func DeleteContent(svc service.ContentRepository, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := svc.Delete(c.UserContext(), c.Params("id"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "content not found")
		}
		if err != nil {
			return writeInternal(c, logger, "delete_content_failed", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func writeRequestError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errTitleRequired) {
		return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
	}
	return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
}

// writeInternal logs err with the request ID and answers with a generic 500.
func writeInternal(c *fiber.Ctx, logger *slog.Logger, msg string, err error) error {
	logger.ErrorContext(c.UserContext(), msg,
		slog.String("request_id", middleware.RequestIDFromCtx(c)),
		slog.String("error", err.Error()),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
