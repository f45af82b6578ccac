package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/deppfellow/items-api/internal/errs"
	"github.com/deppfellow/items-api/internal/repository"
	"github.com/deppfellow/items-api/internal/server"
	"github.com/deppfellow/items-api/internal/service"
	"github.com/deppfellow/items-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// ItemHandler exposes the CRUD endpoints under /api/items.
//
// Dispatch table:
//
//	GET    /api/items      -> 200 JSON array (ascending id)
//	POST   /api/items      -> 201 created row | 400 invalid body
//	PUT    /api/items/:id  -> 200 updated row | 400 invalid body | 404 unknown id
//	DELETE /api/items/:id  -> 204 empty body
//
// Storage failures become 500 via the global error funnel; a non-integer :id
// is treated as an unmatched route (404).
type ItemHandler struct {
	Handler
	items *service.ItemService
}

// NewItemHandler constructs an ItemHandler with access to shared dependencies
// and the items service.
func NewItemHandler(s *server.Server, items *service.ItemService) *ItemHandler {
	return &ItemHandler{
		Handler: NewHandler(s),
		items:   items,
	}
}

// ItemRequest is the JSON payload for create and update.
//
// Value is a pointer so an absent field is distinguishable from an explicit
// zero. Unknown fields in the payload are ignored, not rejected.
type ItemRequest struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Validate applies the payload rules in order; the first failing rule
// provides the client-facing message.
func (r *ItemRequest) Validate() error {
	var validationErrors validation.CustomValidationErrors

	if strings.TrimSpace(r.Name) == "" {
		validationErrors = append(validationErrors, validation.CustomValidationError{
			Field:   "name",
			Message: "name must be string",
		})
	}
	if r.Value == nil {
		validationErrors = append(validationErrors, validation.CustomValidationError{
			Field:   "value",
			Message: "value must be number",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func newItemRequest() *ItemRequest {
	return &ItemRequest{}
}

// parseID returns the numeric identifier from a path parameter.
//
// A value that does not parse as an integer means the request does not match
// an item-level route; callers map that to a route-level 404 rather than a
// validation error.
func parseID(param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// List handles GET /api/items.
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.items.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create returns the handler for POST /api/items.
func (h *ItemHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *ItemRequest) (repository.Item, error) {
		return h.items.Create(c.Request().Context(), req.Name, *req.Value)
	}, http.StatusCreated, newItemRequest)
}

// Update returns the handler for PUT /api/items/:id.
//
// The id precondition is checked before body validation, matching the
// dispatch table: a non-integer id is an unmatched route, regardless of the
// payload.
func (h *ItemHandler) Update() echo.HandlerFunc {
	update := Handle(h.Handler, func(c echo.Context, req *ItemRequest) (repository.Item, error) {
		id, _ := parseID(c.Param("id"))
		return h.items.Update(c.Request().Context(), id, req.Name, *req.Value)
	}, http.StatusOK, newItemRequest)

	return func(c echo.Context) error {
		if _, ok := parseID(c.Param("id")); !ok {
			return errs.NewNotFoundError("Route not found", nil)
		}
		return update(c)
	}
}

// Delete handles DELETE /api/items/:id.
//
// Deleting an id that does not exist still returns 204; the operation is
// idempotent by contract.
func (h *ItemHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return errs.NewNotFoundError("Route not found", nil)
	}

	if err := h.items.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
