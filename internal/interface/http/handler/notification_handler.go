package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), userID, parseIntQuery(c, "limit", 20))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToNotificationResponses(list))
}
