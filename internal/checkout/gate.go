// Package checkout gates order submission. The gate is a pure
// predicate over its inputs with no side effects; callers re-evaluate
// it whenever any input changes.
package checkout

import (
	"dukkan/internal/model"
)

// Rule severities.
const (
	SeverityBlocking = "BLOCKING"
	SeverityWarning  = "WARNING"
)

// Rule identifiers, in precedence order for the single reported reason.
const (
	RuleAddress      = "ADDRESS_REQUIRED"
	RuleVerification = "ACCOUNT_NOT_VERIFIED"
	RuleTerms        = "TERMS_NOT_ACCEPTED"
	RuleItems        = "CART_EMPTY"
	RuleShift        = "SHIFT_REQUIRED"
	RulePayment      = "PAYMENT_METHOD_INVALID"
)

// Input is everything the gate looks at.
type Input struct {
	User          *model.User
	Address       *model.Address
	ShiftID       string
	PaymentMethod model.PaymentMethod
	TermsAccepted bool
	CartSize      int
}

// Rule is one unmet submission requirement.
type Rule struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	FixURL   string `json:"fixUrl,omitempty"`
}

// Readiness is the gate's verdict: an overall boolean, the single
// highest-priority reason when not ready, the full unmet rule list, and
// non-blocking warnings.
type Readiness struct {
	Ready    bool   `json:"ready"`
	Reason   string `json:"reason,omitempty"`
	Unmet    []Rule `json:"unmet,omitempty"`
	Warnings []Rule `json:"warnings,omitempty"`
}

// Evaluate applies all submission rules. Address problems outrank
// verification, which outranks terms, which outranks an empty cart;
// shift and payment selection come last.
func Evaluate(in Input) Readiness {
	var unmet []Rule

	if !in.Address.HasCoordinates() {
		unmet = append(unmet, Rule{
			ID:       RuleAddress,
			Severity: SeverityBlocking,
			Message:  "يرجى اختيار عنوان توصيل مع تحديد الموقع على الخريطة",
			FixURL:   "/account/addresses",
		})
	}

	if in.User == nil || !in.User.IsOtp {
		unmet = append(unmet, Rule{
			ID:       RuleVerification,
			Severity: SeverityBlocking,
			Message:  "يرجى تفعيل حسابك برمز التحقق أولاً",
			FixURL:   "/account/verify",
		})
	}

	if !in.TermsAccepted {
		unmet = append(unmet, Rule{
			ID:       RuleTerms,
			Severity: SeverityBlocking,
			Message:  "يجب الموافقة على الشروط والأحكام",
			FixURL:   "/terms",
		})
	}

	if in.CartSize < 1 {
		unmet = append(unmet, Rule{
			ID:       RuleItems,
			Severity: SeverityBlocking,
			Message:  "سلة التسوق فارغة",
			FixURL:   "/",
		})
	}

	if in.ShiftID == "" {
		unmet = append(unmet, Rule{
			ID:       RuleShift,
			Severity: SeverityBlocking,
			Message:  "يرجى اختيار فترة التوصيل",
		})
	}

	if !in.PaymentMethod.Valid() {
		unmet = append(unmet, Rule{
			ID:       RulePayment,
			Severity: SeverityBlocking,
			Message:  "يرجى اختيار طريقة دفع صالحة",
		})
	}

	readiness := Readiness{
		Ready: len(unmet) == 0,
		Unmet: unmet,
	}
	if len(unmet) > 0 {
		readiness.Reason = unmet[0].Message
	}

	// Address detail gaps never block submission; they are reported so
	// the storefront can nudge the customer.
	if in.Address.HasCoordinates() {
		for _, field := range in.Address.MissingDetails() {
			readiness.Warnings = append(readiness.Warnings, Rule{
				ID:       "ADDRESS_DETAIL_MISSING",
				Severity: SeverityWarning,
				Message:  "استكمال تفاصيل العنوان يساعد السائق في الوصول إليك: " + field,
				FixURL:   "/account/addresses",
			})
		}
	}

	return readiness
}
