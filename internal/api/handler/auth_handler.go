package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/api/metrics"
	"github.com/eventhub/storefront/internal/api/middleware"
	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

const (
	homePath      = "/"
	dashboardPath = "/admin/dashboard"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type signUpRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type adminSignUpRequest struct {
	signUpRequest
	AccessKey string `json:"access_key" validate:"required"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type federatedSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type adminFederatedSignUpRequest struct {
	AccessKey string `json:"access_key" validate:"required"`
	IDToken   string `json:"id_token" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type signInResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      domain.Identity `json:"user"`
	IsAdmin   bool            `json:"is_admin"`
	// Redirect is where the client lands after signing in.
	Redirect string `json:"redirect"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toSignInResponse(res *ports.SignInResult) signInResponse {
	redirect := homePath
	if res.IsAdmin {
		redirect = dashboardPath
	}
	return signInResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.Identity,
		IsAdmin:   res.IsAdmin,
		Redirect:  redirect,
	}
}

func recordAuth(method string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(method, result).Inc()
}

// SignUp creates a password account with the user role.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  signInResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	recordAuth(domain.ProviderPassword, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSignInResponse(res))
}

// SignIn authenticates with email and password.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	recordAuth(domain.ProviderPassword, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSignInResponse(res))
}

// SignInFederated exchanges a federated id token for a session.
//
// @Summary      Sign in with a federated account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      federatedSignInRequest  true  "Federated id token"
// @Success      200   {object}  signInResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in/federated [post]
func (h *AuthHandler) SignInFederated(c echo.Context) error {
	var req federatedSignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignInFederated(c.Request().Context(), req.IDToken)
	recordAuth(domain.ProviderFederated, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSignInResponse(res))
}

// SignOut revokes the bearer token.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.authService.SignOut(c.Request().Context(), middleware.TokenFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SendPasswordReset mails a reset link. The response does not reveal whether
// the address has an account.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/password-reset [post]
func (h *AuthHandler) SendPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.SendPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "Password reset email sent. Check your inbox."})
}

// ConfirmPasswordReset sets a new password using a reset token.
//
// @Summary      Confirm a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetConfirmRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated. You can sign in now."})
}

// AdminSignUp creates an admin account after checking the access key.
//
// @Summary      Admin sign up
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminSignUpRequest  true  "Account details and access key"
// @Success      201   {object}  signInResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/sign-up [post]
func (h *AuthHandler) AdminSignUp(c echo.Context) error {
	var req adminSignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.AdminSignUp(c.Request().Context(), req.AccessKey, ports.SignUpInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	recordAuth("admin_password", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSignInResponse(res))
}

// AdminFederatedSignUp grants the admin role to a federated account.
//
// @Summary      Admin sign up with a federated account
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminFederatedSignUpRequest  true  "Access key and federated id token"
// @Success      201   {object}  signInResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/sign-up/federated [post]
func (h *AuthHandler) AdminFederatedSignUp(c echo.Context) error {
	var req adminFederatedSignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.AdminFederatedSignUp(c.Request().Context(), req.AccessKey, req.IDToken)
	recordAuth("admin_federated", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSignInResponse(res))
}

// AdminSignIn signs in and refuses accounts without the admin role. The
// token issued to a non-admin is revoked before responding.
//
// @Summary      Admin sign in
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/sign-in [post]
func (h *AuthHandler) AdminSignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err == nil && !res.IsAdmin {
		if signOutErr := h.authService.SignOut(ctx, res.Token); signOutErr != nil {
			h.logger.Warn().Err(signOutErr).Str("user_id", res.Identity.ID).Msg("failed to revoke non-admin token")
		}
		err = domain.ErrAdminRequired
	}
	recordAuth("admin_password", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSignInResponse(res))
}
