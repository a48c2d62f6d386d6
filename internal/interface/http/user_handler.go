package handlers

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/tikkit/tikkit-api/internal/application"
	"github.com/tikkit/tikkit-api/internal/domain/errcode"
	"github.com/tikkit/tikkit-api/pkg/helpers"
	"github.com/tikkit/tikkit-api/pkg/response"
	"github.com/tikkit/tikkit-api/pkg/validation"
)

var (
	registeredTotal = expvar.NewInt("users_registered_total")
	rejectedTotal   = expvar.NewInt("users_registration_rejected_total")
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type registerResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type checkEmailResponse struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Write(c, response.Error[any](c, http.StatusBadRequest, errcode.CodeInvalidInput, "invalid payload", validation.ToDetails(err)))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		h.fail(c, err, "register user failed")
		return
	}

	registeredTotal.Add(1)
	response.Write(c, response.Success(c, http.StatusCreated, registerResponse{
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
	}, "user registered", nil))
}

// CheckEmail answers whether an address is still free. The value is not format-checked.
func (h *UserHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	taken, err := h.Svc.IsEmailDuplicated(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, "check email failed")
		return
	}

	msg := "email is available"
	if taken {
		msg = "email is already in use"
	}
	response.Write(c, response.Success(c, http.StatusOK, checkEmailResponse{Email: email, Available: !taken}, msg, nil))
}

func (h *UserHandler) fail(c *gin.Context, err error, logMsg string) {
	if de, ok := errcode.As(err); ok {
		rejectedTotal.Add(1)
		status := http.StatusConflict
		if errcode.IsValidation(de) {
			status = http.StatusBadRequest
		}
		response.Write(c, response.Error[any](c, status, de.Code, de.Message, gin.H{"reason": de.Reason}))
		return
	}
	helpers.LogError(h.Logger, logMsg, err, logrus.Fields{"request_id": c.GetString("request_id")})
	response.Write(c, response.Error[any](c, http.StatusInternalServerError, errcode.CodeInternal, "internal server error", nil))
}
