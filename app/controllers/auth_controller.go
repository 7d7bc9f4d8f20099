package controllers

import (
	"net/http"

	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/bind"
	"github.com/priyamehta/aarohi/pkg/middleware"
	"github.com/priyamehta/aarohi/pkg/response"
)

// AuthController serves registration, login, and profile endpoints.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController wires the controller to the auth service.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// tokenCookie builds the session cookie carried alongside the JSON token.
func tokenCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	res, err := c.auth.Register(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}

	http.SetCookie(w, tokenCookie(res.Token, 30*24*3600))
	response.Created(w, response.M{"user": res.User, "token": res.Token})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	res, err := c.auth.Login(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}

	http.SetCookie(w, tokenCookie(res.Token, 30*24*3600))
	response.OK(w, response.M{"user": res.User, "token": res.Token})
}

// Logout handles POST /api/auth/logout — clears the session cookie. The
// bearer token itself stays valid until expiry (stateless JWTs).
func (c *AuthController) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, tokenCookie("", -1))
	response.OK(w, response.M{"message": "logged out"})
}

// Me handles GET /api/auth/me (authenticated).
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	u, err := c.auth.Me(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"user": u})
}

// UpdateProfile handles PUT /api/auth/profile (authenticated).
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.UpdateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	u, err := c.auth.UpdateProfile(r.Context(), claims.UserID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"user": u})
}
