package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeAuthRequired      = "AUTH_REQUIRED"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeAddressNotOwned   = "ADDRESS_NOT_OWNED"
	ErrCodeShiftNotFound     = "SHIFT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeTripNotFound      = "TRIP_NOT_FOUND"
	ErrCodeActiveTripExists  = "ACTIVE_TRIP_EXISTS"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeCartSyncFailed    = "CART_SYNC_FAILED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable code and a
// user-facing message. Messages are in Arabic, the storefront's language;
// internals are never exposed through them.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	// ErrNotAuthenticated signals the caller to redirect to login rather
	// than render a generic failure.
	ErrNotAuthenticated = NewDomainError(ErrCodeAuthRequired, "يجب تسجيل الدخول أولاً")

	// ErrEmptyCart is a soft redirect signal, not a hard failure.
	ErrEmptyCart = NewDomainError(ErrCodeEmptyCart, "سلة التسوق فارغة")

	ErrAddressNotOwned   = NewDomainError(ErrCodeAddressNotOwned, "العنوان المحدد غير صالح")
	ErrShiftNotFound     = NewDomainError(ErrCodeShiftNotFound, "فترة التوصيل المحددة غير متوفرة")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "الطلب غير موجود")
	ErrTripNotFound      = NewDomainError(ErrCodeTripNotFound, "لا توجد رحلة نشطة لهذا الطلب")
	ErrActiveTripExists  = NewDomainError(ErrCodeActiveTripExists, "لديك رحلة نشطة بالفعل، يرجى إنهاؤها أولاً")
	ErrNotOrderDriver    = NewDomainError(ErrCodeForbidden, "ليس لديك صلاحية على هذا الطلب")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "ليس لديك صلاحية لتنفيذ هذا الإجراء")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "لا يمكن تغيير حالة الطلب الحالية")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "الكمية المطلوبة غير صالحة")
	ErrCartSyncFailed    = NewDomainError(ErrCodeCartSyncFailed, "تعذر حفظ سلة التسوق، يرجى المحاولة مرة أخرى")
	ErrInternal          = NewDomainError(ErrCodeInternalError, "حدث خطأ ما، يرجى المحاولة مرة أخرى")
)
