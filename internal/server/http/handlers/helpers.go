package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/server/http/dto"
)

const internalErrorMessage = "Internal server error"

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidSignature), errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a payment error body. Storage failures and
// unclassified errors are not echoed to the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domainErrors.ErrUpstream) && !errors.Is(err, domainErrors.ErrConfiguration) {
		message = internalErrorMessage
	}
	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{Success: false, Error: message})
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID,
		ProductID:     o.ProductID,
		BuyerID:       o.BuyerID,
		SellerID:      o.SellerID,
		ProductTitle:  o.ProductTitle,
		ProductPrice:  o.ProductPrice.StringFixed(2),
		TotalPrice:    o.TotalPrice.StringFixed(2),
		BuyerName:     o.BuyerName,
		BuyerPhone:    o.BuyerPhone,
		BuyerWhatsapp: o.BuyerWhatsapp,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		InvoiceID:     o.InvoiceID,
		TransactionID: o.TransactionID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderStatus(s model.OrderSnapshot) dto.OrderStatus {
	return dto.OrderStatus{
		ID:            s.OrderID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		InvoiceID:     s.InvoiceID,
		TransactionID: s.TransactionID,
		UpdatedAt:     s.UpdatedAt,
	}
}
