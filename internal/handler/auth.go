package handler

import (
	"net/http"

	"github.com/4ourCEo/Kitly/internal/dto"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.authService.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// SignOut exists for the client's sake; tokens are stateless and simply
// discarded on that side.
func (h *AuthHandler) SignOut(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.authService.GoogleAuthorizeURL())
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid oauth callback")
	}

	resp, err := h.authService.CompleteGoogleSignIn(ctx, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
