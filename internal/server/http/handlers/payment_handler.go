package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/server/http/dto"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-Zinipay-Signature"

// PaymentHandler manages checkout, verification and provider callbacks.
type PaymentHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, logger: logger}
}

// Initiate handles POST /api/payment/initiate.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "invalid request body"})
		return
	}

	session, err := h.facade.InitiatePayment(c.Request.Context(), model.Checkout{
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		UserID:        req.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InitiateResponse{
		Success:    true,
		PaymentURL: session.PaymentURL,
		OrderID:    session.OrderID,
		InvoiceID:  session.InvoiceID,
	})
}

// Verify handles POST /api/payment/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Invoice ID is required"})
		return
	}

	v, err := h.facade.VerifyPayment(c.Request.Context(), req.InvoiceID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.VerifyResponse{Success: v.Completed(), Data: verificationData(v)}
	if !resp.Success {
		resp.Message = "Payment not completed"
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook handles POST /api/payment/webhook. Once a notification is
// authenticated and parsed it is always acknowledged with 200 so the
// provider does not redeliver; processing failures are only logged.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "unreadable body"})
		return
	}

	n, err := h.facade.ParseWebhook(body, c.GetHeader(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			h.logger.Warn("webhook rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "invalid signature"})
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "malformed webhook body"})
		default:
			writeError(c, err)
		}
		return
	}

	if err := h.facade.HandleWebhook(c.Request.Context(), *n); err != nil {
		h.logger.Error("webhook processing failed",
			slog.String("invoice_id", n.InvoiceID),
			slog.String("order_id", n.OrderID),
			slog.String("status", n.Status),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "Webhook processed"})
}

// Status handles GET /api/payment/orders/:id.
func (h *PaymentHandler) Status(c *gin.Context) {
	snapshot, err := h.facade.OrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderStatusResponse{Success: true, Order: toOrderStatus(*snapshot)})
}

func verificationData(v *model.Verification) any {
	if len(v.Raw) > 0 && json.Valid(v.Raw) {
		return v.Raw
	}
	return dto.VerificationData{Status: v.Status, InvoiceID: v.InvoiceID, TransactionID: v.TransactionID}
}
