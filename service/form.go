package service

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"loan-predictor/domain"
)

// Field names accepted by the form, matching the wire names of the payload.
const (
	FieldAnnualIncome      = "annual_income"
	FieldDebtToIncomeRatio = "debt_to_income_ratio"
	FieldCreditScore       = "credit_score"
	FieldLoanAmount        = "loan_amount"
	FieldInterestRate      = "interest_rate"
	FieldGender            = "gender"
	FieldMaritalStatus     = "marital_status"
	FieldEducationLevel    = "education_level"
	FieldEmploymentStatus  = "employment_status"
	FieldLoanPurpose       = "loan_purpose"
	FieldGradeSubgrade     = "grade_subgrade"
)

// FormFields lists all eleven fields in display order.
var FormFields = []string{
	FieldAnnualIncome,
	FieldDebtToIncomeRatio,
	FieldCreditScore,
	FieldLoanAmount,
	FieldInterestRate,
	FieldGender,
	FieldMaritalStatus,
	FieldEducationLevel,
	FieldEmploymentStatus,
	FieldLoanPurpose,
	FieldGradeSubgrade,
}

var gradeSubgradePattern = regexp.MustCompile(`^[A-F][1-5]$`)

var formValidator = newFormValidator()

// newFormValidator reports violations under wire field names instead of Go
// struct field names.
func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormModel holds the in-progress application as raw strings. Nothing is
// validated at keystroke time; Validate does all coercion and constraint
// checking in one pass.
type FormModel struct {
	mu   sync.Mutex
	raws map[string]string
}

func NewFormModel() *FormModel {
	return &FormModel{raws: make(map[string]string)}
}

// SetField stores the raw value for one field. Unknown names are reported
// so a typo cannot silently drop input.
func (f *FormModel) SetField(name, raw string) error {
	if !knownField(name) {
		return domain.FieldViolations{name: "unknown field"}
	}
	f.mu.Lock()
	f.raws[name] = raw
	f.mu.Unlock()
	return nil
}

// Field returns the current raw value for a field.
func (f *FormModel) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raws[name]
}

// Reset clears every field back to empty.
func (f *FormModel) Reset() {
	f.mu.Lock()
	f.raws = make(map[string]string)
	f.mu.Unlock()
}

// Validate coerces and checks all eleven fields. It returns the typed
// payload when everything passes, or the full map of field → violated
// constraint. An empty string is a missing value, never zero; out-of-range
// numbers are rejected, never clamped.
func (f *FormModel) Validate() (domain.LoanApplication, domain.FieldViolations) {
	f.mu.Lock()
	raws := make(map[string]string, len(f.raws))
	for k, v := range f.raws {
		raws[k] = v
	}
	f.mu.Unlock()

	violations := domain.FieldViolations{}
	var app domain.LoanApplication

	app.AnnualIncome = parseFloat(raws, FieldAnnualIncome, violations)
	app.DebtToIncomeRatio = parseFloat(raws, FieldDebtToIncomeRatio, violations)
	app.CreditScore = parseInt(raws, FieldCreditScore, violations)
	app.LoanAmount = parseFloat(raws, FieldLoanAmount, violations)
	app.InterestRate = parseFloat(raws, FieldInterestRate, violations)

	app.Gender = parseEnum(raws, FieldGender, domain.Genders, violations)
	app.MaritalStatus = parseEnum(raws, FieldMaritalStatus, domain.MaritalStatuses, violations)
	app.EducationLevel = parseEnum(raws, FieldEducationLevel, domain.EducationLevels, violations)
	app.EmploymentStatus = parseEnum(raws, FieldEmploymentStatus, domain.EmploymentStatuses, violations)
	app.LoanPurpose = parseEnum(raws, FieldLoanPurpose, domain.LoanPurposes, violations)

	grade := strings.TrimSpace(raws[FieldGradeSubgrade])
	switch {
	case grade == "":
		violations[FieldGradeSubgrade] = "is required"
	case !gradeSubgradePattern.MatchString(grade):
		violations[FieldGradeSubgrade] = "must be a letter A-F followed by a digit 1-5, e.g. C1"
	default:
		app.GradeSubgrade = grade
	}

	// Range constraints live as tags on the payload struct; only run them
	// once coercion succeeded, so every field reports its first failure.
	if len(violations) == 0 {
		if err := formValidator.Struct(app); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					violations[fe.Field()] = rangeMessage(fe)
				}
			} else {
				violations["_form"] = err.Error()
			}
		}
	}

	if len(violations) > 0 {
		return domain.LoanApplication{}, violations
	}
	return app, nil
}

func knownField(name string) bool {
	for _, f := range FormFields {
		if f == name {
			return true
		}
	}
	return false
}

func parseFloat(raws map[string]string, name string, violations domain.FieldViolations) float64 {
	raw := strings.TrimSpace(raws[name])
	if raw == "" {
		violations[name] = "is required"
		return 0
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		violations[name] = "must be a number"
		return 0
	}
	return val
}

func parseInt(raws map[string]string, name string, violations domain.FieldViolations) int {
	raw := strings.TrimSpace(raws[name])
	if raw == "" {
		violations[name] = "is required"
		return 0
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		violations[name] = "must be a whole number"
		return 0
	}
	return val
}

func parseEnum(raws map[string]string, name string, allowed []string, violations domain.FieldViolations) string {
	raw := strings.TrimSpace(raws[name])
	if raw == "" {
		violations[name] = "is required"
		return ""
	}
	for _, option := range allowed {
		if raw == option {
			return raw
		}
	}
	violations[name] = "must be one of: " + strings.Join(allowed, ", ")
	return ""
}

func rangeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "required":
		return "is required"
	default:
		return "is invalid"
	}
}
