package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/consulting-marketplace/internal/metrics"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/order"
)

// IdempotencyKeyHeader имеет приоритет над полем idempotency_key в теле запроса.
const IdempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	getOrderUC          *order.GetOrderUseCase
	listMyOrdersUC      *order.ListMyOrdersUseCase
	requestCompletionUC *order.RequestCompletionUseCase
	confirmCompletionUC *order.ConfirmCompletionUseCase
	cancelOrderUC       *order.CancelOrderUseCase
	releasePaymentUC    *order.ReleasePaymentUseCase
	listPaymentsUC      *order.ListPaymentsUseCase
}

func NewOrderHandler(
	getOrderUC *order.GetOrderUseCase,
	listMyOrdersUC *order.ListMyOrdersUseCase,
	requestCompletionUC *order.RequestCompletionUseCase,
	confirmCompletionUC *order.ConfirmCompletionUseCase,
	cancelOrderUC *order.CancelOrderUseCase,
	releasePaymentUC *order.ReleasePaymentUseCase,
	listPaymentsUC *order.ListPaymentsUseCase,
) *OrderHandler {
	return &OrderHandler{
		getOrderUC:          getOrderUC,
		listMyOrdersUC:      listMyOrdersUC,
		requestCompletionUC: requestCompletionUC,
		confirmCompletionUC: confirmCompletionUC,
		cancelOrderUC:       cancelOrderUC,
		releasePaymentUC:    releasePaymentUC,
		listPaymentsUC:      listPaymentsUC,
	}
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.listMyOrdersUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponses(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	o, err := h.getOrderUC.Execute(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) RequestCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	// Тело необязательно.
	var req dto.RequestCompletionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "некорректные данные запроса")
			return
		}
	}

	o, err := h.requestCompletionUC.Execute(c.Request.Context(), orderID, userID, req.Message)
	metrics.ObserveOperation("request_completion", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ConfirmCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	o, err := h.confirmCompletionUC.Execute(c.Request.Context(), orderID, userID)
	metrics.ObserveOperation("confirm_completion", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	o, err := h.cancelOrderUC.Execute(c.Request.Context(), orderID, userID)
	metrics.ObserveOperation("cancel_order", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ReleasePayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	var req dto.ReleasePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" {
		key = req.IdempotencyKey
	}

	o, err := h.releasePaymentUC.Execute(c.Request.Context(), order.ReleasePaymentInput{
		OrderID:        orderID,
		BuyerID:        userID,
		Amount:         req.Amount,
		IdempotencyKey: key,
	})
	metrics.ObserveOperation("release_payment", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOrderResponse(o))
}

func (h *OrderHandler) ListPayments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id", "некорректный ID сделки")
	if !ok {
		return
	}

	payments, err := h.listPaymentsUC.Execute(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPaymentResponses(payments))
}
