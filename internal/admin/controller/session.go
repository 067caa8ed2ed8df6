package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cors "github.com/rs/cors/wrapper/gin"

	"fixengine/internal/admin/model"
	"fixengine/internal/admin/service"
	"fixengine/internal/session"
	_model "fixengine/pkg/model"
	"fixengine/pkg/utils"
)

type sessionHandler struct {
	svc service.ISessionService
}

// NewSessionHandler registers the session routes behind middlewares.
func NewSessionHandler(r *gin.Engine, svc service.ISessionService, middlewares ...gin.HandlerFunc) {
	handler := &sessionHandler{
		svc: svc,
	}
	r.Use(cors.AllowAll())

	sessionRoute := r.Group("/api/sessions", middlewares...)

	sessionRoute.GET("", handler.List)
	sessionRoute.GET("/:id", handler.Get)
	sessionRoute.GET("/:id/messages", handler.Messages)
	sessionRoute.POST("/:id/logout", handler.Logout)
	sessionRoute.POST("/:id/reset", handler.Reset)
	sessionRoute.POST("/:id/sequences", handler.SetSequences)
}

func (h *sessionHandler) List(r *gin.Context) {
	r.JSON(http.StatusOK, &_model.Response{
		Data: h.svc.List(r.Request.Context()),
	})
}

func (h *sessionHandler) Get(r *gin.Context) {
	status, err := h.svc.Get(r.Request.Context(), r.Param("id"))
	if err != nil {
		fail(r, err)
		return
	}
	r.JSON(http.StatusOK, &_model.Response{
		Data: status,
	})
}

func (h *sessionHandler) Messages(r *gin.Context) {
	var req model.MessagesQuery
	if err := utils.UnmarshalAndValidate(r, &req); err != nil {
		badRequest(r, err)
		return
	}
	messages, err := h.svc.Messages(r.Request.Context(), r.Param("id"), req)
	if err != nil {
		fail(r, err)
		return
	}
	r.JSON(http.StatusOK, &_model.Response{
		Data: messages,
	})
}

func (h *sessionHandler) Logout(r *gin.Context) {
	var req model.LogoutRequest
	if r.Request.ContentLength > 0 {
		if err := utils.UnmarshalAndValidate(r, &req); err != nil {
			badRequest(r, err)
			return
		}
	}
	if err := h.svc.Logout(r.Request.Context(), r.Param("id"), req); err != nil {
		fail(r, err)
		return
	}
	r.JSON(http.StatusAccepted, &_model.Response{
		Message: "logout started",
	})
}

func (h *sessionHandler) Reset(r *gin.Context) {
	status, err := h.svc.Reset(r.Request.Context(), r.Param("id"))
	if err != nil {
		fail(r, err)
		return
	}
	r.JSON(http.StatusOK, &_model.Response{
		Data: status,
	})
}

func (h *sessionHandler) SetSequences(r *gin.Context) {
	var req model.SetSequences
	if err := utils.UnmarshalAndValidate(r, &req); err != nil {
		badRequest(r, err)
		return
	}
	status, err := h.svc.SetSequences(r.Request.Context(), r.Param("id"), req)
	if err != nil {
		fail(r, err)
		return
	}
	r.JSON(http.StatusOK, &_model.Response{
		Data: status,
	})
}

func badRequest(r *gin.Context, err error) {
	r.JSON(http.StatusBadRequest, &_model.Response{
		Error:   true,
		Message: utils.Translate(err),
	})
}

func fail(r *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidID):
		code = http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrNotConnected):
		code = http.StatusConflict
	}
	r.JSON(code, &_model.Response{
		Error:   true,
		Message: err.Error(),
	})
}
