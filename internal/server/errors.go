package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/officecrm/internal/artifact"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	followupdomain "github.com/smallbiznis/officecrm/internal/followup/domain"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	paymentdomain "github.com/smallbiznis/officecrm/internal/payment/domain"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	projectdomain "github.com/smallbiznis/officecrm/internal/project/domain"
	"github.com/smallbiznis/officecrm/internal/providers/pdf"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
	"github.com/smallbiznis/officecrm/pkg/db"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrRateLimited        = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog reports the payload type and code the error maps to so
// request logs carry the same classification the client sees.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	} else if err != nil && payload.Type != "internal_error" {
		code = err.Error()
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, invoicedomain.ErrConcurrentUpdate),
		errors.Is(err, invoicedomain.ErrDuplicateNumber),
		errors.Is(err, quotationdomain.ErrDuplicate),
		errors.Is(err, followupdomain.ErrNotPending):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, artifact.ErrInvalidKey):
		return true
	case isDocumentValidationError(err),
		isLeadValidationError(err),
		isProductValidationError(err),
		isFollowupValidationError(err),
		isQuotationValidationError(err),
		isInvoiceValidationError(err),
		isPaymentValidationError(err),
		isProjectValidationError(err):
		return true
	default:
		return false
	}
}

func isDocumentValidationError(err error) bool {
	switch {
	case errors.Is(err, docdomain.ErrUnknownKind),
		errors.Is(err, docdomain.ErrMissingNumber),
		errors.Is(err, docdomain.ErrMissingDate),
		errors.Is(err, docdomain.ErrInvalidVersion),
		errors.Is(err, docdomain.ErrEmptyItems),
		errors.Is(err, docdomain.ErrInvalidDate),
		errors.Is(err, lineitem.ErrInvalidName),
		errors.Is(err, lineitem.ErrInvalidQuantity),
		errors.Is(err, lineitem.ErrInvalidPrice),
		errors.Is(err, lineitem.ErrInvalidAmount),
		errors.Is(err, lineitem.ErrInvalidProduct),
		errors.Is(err, pdf.ErrInvalidReceipt),
		errors.Is(err, pdf.ErrInvalidStatement):
		return true
	default:
		return false
	}
}

func isLeadValidationError(err error) bool {
	switch {
	case errors.Is(err, leaddomain.ErrInvalidID),
		errors.Is(err, leaddomain.ErrInvalidCompanyName),
		errors.Is(err, leaddomain.ErrInvalidContactPerson),
		errors.Is(err, leaddomain.ErrInvalidEmail),
		errors.Is(err, leaddomain.ErrInvalidGSTIN),
		errors.Is(err, leaddomain.ErrInvalidPageToken):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidModel),
		errors.Is(err, productdomain.ErrInvalidUnits),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrPriceBelowCost):
		return true
	default:
		return false
	}
}

func isFollowupValidationError(err error) bool {
	switch {
	case errors.Is(err, followupdomain.ErrInvalidID),
		errors.Is(err, followupdomain.ErrInvalidTitle),
		errors.Is(err, followupdomain.ErrInvalidDueDate),
		errors.Is(err, followupdomain.ErrInvalidDueTime),
		errors.Is(err, followupdomain.ErrInvalidStatus),
		errors.Is(err, followupdomain.ErrInvalidWindow),
		errors.Is(err, followupdomain.ErrInvalidLead),
		errors.Is(err, followupdomain.ErrInvalidInvoice),
		errors.Is(err, followupdomain.ErrMissingReference):
		return true
	default:
		return false
	}
}

func isQuotationValidationError(err error) bool {
	switch {
	case errors.Is(err, quotationdomain.ErrInvalidID),
		errors.Is(err, quotationdomain.ErrInvalidLead),
		errors.Is(err, quotationdomain.ErrInvalidDate),
		errors.Is(err, quotationdomain.ErrInvalidStatus),
		errors.Is(err, quotationdomain.ErrEmptyItems):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidLead),
		errors.Is(err, invoicedomain.ErrInvalidQuotation),
		errors.Is(err, invoicedomain.ErrInvalidDate),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrEmptyItems):
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidInvoice),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrAmountExceedsDue),
		errors.Is(err, paymentdomain.ErrInvalidDate),
		errors.Is(err, paymentdomain.ErrInvalidPaymentMode):
		return true
	default:
		return false
	}
}

func isProjectValidationError(err error) bool {
	switch {
	case errors.Is(err, projectdomain.ErrInvalidID),
		errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidReference),
		errors.Is(err, projectdomain.ErrInvalidQuoteAmount),
		errors.Is(err, projectdomain.ErrInvalidStatus),
		errors.Is(err, projectdomain.ErrInvalidDate),
		errors.Is(err, projectdomain.ErrInvalidCategory),
		errors.Is(err, projectdomain.ErrInvalidAmount),
		errors.Is(err, projectdomain.ErrInvalidPaymentMode):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, artifact.ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, followupdomain.ErrNotFound),
		errors.Is(err, followupdomain.ErrLeadNotFound),
		errors.Is(err, followupdomain.ErrInvoiceNotFound),
		errors.Is(err, quotationdomain.ErrNotFound),
		errors.Is(err, quotationdomain.ErrLeadNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrLeadNotFound),
		errors.Is(err, invoicedomain.ErrQuotationNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrInvoiceNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		db.IsNotFound(err):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		artifact.ErrInvalidKey,
		docdomain.ErrUnknownKind,
		docdomain.ErrMissingNumber,
		docdomain.ErrMissingDate,
		docdomain.ErrEmptyItems,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	// Wrapped errors keep the sentinel text as their last segment.
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "selling_price_below_cost":
		return "selling_price"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "missing_") {
		return strings.TrimPrefix(code, "missing_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "payment_exceeds_balance":
		return "payment exceeds the balance due"
	case "selling_price_below_cost":
		return "selling price must not be below our price"
	case "missing_followup_reference":
		return "a lead or an invoice is required"
	case "empty_line_items", "empty_quotation_items", "empty_invoice_items":
		return "at least one line item is required"
	default:
		return "invalid value"
	}
}
