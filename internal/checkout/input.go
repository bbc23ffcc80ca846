package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"dukkan/internal/model"

	"github.com/go-playground/validator/v10"
)

// CheckoutInput is the typed checkout submission payload. It is
// validated in one pass; expected validation failures never surface as
// thrown errors, only as a complete field-error list.
type CheckoutInput struct {
	FullName      string              `json:"fullName" validate:"required,min=2,max=50,personname"`
	Phone         string              `json:"phone" validate:"required,min=10,max=15,phone"`
	AddressID     string              `json:"addressId" validate:"required,uuid"`
	ShiftID       string              `json:"shiftId" validate:"required,uuid"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH CARD WALLET"`
	TermsAccepted bool                `json:"termsAccepted" validate:"eq=true"`
}

// Normalize strips whitespace from the phone and trims the name before
// validation.
func (in *CheckoutInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.Join(strings.Fields(in.Phone), "")
}

// FieldError is one validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// Arabic or Latin letters and spaces only.
	nameRe  = regexp.MustCompile(`^[\p{Arabic}a-zA-Z ]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{9,14}$`)
)

// Validator validates checkout payloads.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a checkout payload validator with the custom
// name and phone rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	// Report fields under their JSON names so the storefront can match
	// errors to form inputs directly.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate normalizes and validates the payload, collecting every
// failed field rather than stopping at the first.
func (v *Validator) Validate(in *CheckoutInput) []FieldError {
	in.Normalize()

	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: model.ErrInternal.Message}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}

	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "FullName":
		switch fe.Tag() {
		case "required":
			return "الاسم الكامل مطلوب"
		case "min", "max":
			return "يجب أن يكون الاسم بين 2 و 50 حرفاً"
		default:
			return "الاسم يجب أن يحتوي على أحرف عربية أو لاتينية فقط"
		}
	case "Phone":
		if fe.Tag() == "required" {
			return "رقم الهاتف مطلوب"
		}
		return "رقم الهاتف غير صالح"
	case "AddressID":
		return "يرجى اختيار عنوان التوصيل"
	case "ShiftID":
		return "يرجى اختيار فترة التوصيل"
	case "PaymentMethod":
		return "يرجى اختيار طريقة دفع صالحة"
	case "TermsAccepted":
		return "يجب الموافقة على الشروط والأحكام"
	default:
		return "قيمة غير صالحة"
	}
}
