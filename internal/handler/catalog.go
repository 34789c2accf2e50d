package handler

import (
	"net/http"

	"github.com/4ourCEo/Kitly/internal/middleware"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListKits(c echo.Context) error {
	ctx := c.Request().Context()

	kits, err := h.catalogService.ListKits(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, kits)
}

func (h *CatalogHandler) GetKit(c echo.Context) error {
	ctx := c.Request().Context()

	kit, err := h.catalogService.GetKit(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, kit)
}

func (h *CatalogHandler) ListMyKits(c echo.Context) error {
	ctx := c.Request().Context()

	entitlements, err := h.catalogService.ListUserKits(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entitlements)
}
