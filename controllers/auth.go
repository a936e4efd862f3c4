package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/services"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type socialLoginRequest struct {
	Token       string `json:"token"`
	Credential  string `json:"credential"`
	AccessToken string `json:"accessToken"`
}

// assertion returns whichever field the client used to carry the provider
// assertion; the web SDKs are not consistent about naming.
func (r *socialLoginRequest) assertion() string {
	if r.Token != "" {
		return r.Token
	}
	if r.Credential != "" {
		return r.Credential
	}
	return r.AccessToken
}

func (ac *AuthController) socialLogin(provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(socialLoginRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
		assertion := req.assertion()
		if assertion == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing provider token",
			})
		}
		return ac.service.SocialLogin(c.Context(), provider, assertion).Send(c)
	}
}

func (ac *AuthController) GoogleLogin(c *fiber.Ctx) error {
	return ac.socialLogin("google")(c)
}

func (ac *AuthController) GoogleOneTapLogin(c *fiber.Ctx) error {
	return ac.socialLogin("google_one_tap")(c)
}

func (ac *AuthController) GooglePlusLogin(c *fiber.Ctx) error {
	return ac.socialLogin("google_plus")(c)
}

func (ac *AuthController) FacebookLogin(c *fiber.Ctx) error {
	return ac.socialLogin("facebook")(c)
}

func (ac *AuthController) AppleLogin(c *fiber.Ctx) error {
	return ac.socialLogin("apple")(c)
}

// OutlookURL hands the client the consent URL plus the state it must echo
// back on the callback.
func (ac *AuthController) OutlookURL(c *fiber.Ctx) error {
	return ac.service.OutlookAuthorizationURL(c.Context()).Send(c)
}

func (ac *AuthController) OutlookLogin(c *fiber.Ctx) error {
	type outlookRequest struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	req := new(outlookRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if req.Code == "" || req.State == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Code and state are required",
		})
	}
	return ac.service.OutlookLogin(c.Context(), req.Code, req.State).Send(c)
}

// Login handles classic email/password authentication.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return ac.service.PasswordLogin(c.Context(), req.Email, req.Password).Send(c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return ac.service.Logout().Send(c)
}
