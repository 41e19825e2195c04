package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// entityHandler serves the CRUD surface shared by every tenant-owned entity.
// T is the domain type returned, R the request body accepted on create and update.
type entityHandler[T any, R any] struct {
	svc  portssvc.EntitySvc[T, R]
	name string
}

func newEntityHandler[T any, R any](svc portssvc.EntitySvc[T, R], name string) *entityHandler[T, R] {
	return &entityHandler[T, R]{svc: svc, name: name}
}

// registerEntityRoutes mounts list/create/get/update/delete under rg/path and
// returns the group so callers can add entity specific actions.
func registerEntityRoutes[T any, R any](rg *gin.RouterGroup, path, name string, svc portssvc.EntitySvc[T, R]) *gin.RouterGroup {
	h := newEntityHandler(svc, name)
	g := rg.Group(path)
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/:id", h.get)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
	return g
}

func (h *entityHandler[T, R]) list(c *gin.Context) {
	q, ok := listParams(c)
	if !ok {
		return
	}
	page, err := h.svc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		respondError(c, err, "Failed to list "+h.name)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *entityHandler[T, R]) create(c *gin.Context) {
	var req R
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create "+h.name)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *entityHandler[T, R]) get(c *gin.Context) {
	entity, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get "+h.name)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *entityHandler[T, R]) update(c *gin.Context) {
	var req R
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update "+h.name)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *entityHandler[T, R]) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete "+h.name)
		return
	}
	c.Status(http.StatusNoContent)
}
