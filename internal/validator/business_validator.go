package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

// ErrValidationFailed matches any ValidationErrors under errors.Is.
var ErrValidationFailed = errors.New("validation failed")

func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister adds the role-dependent profile rules on top of the struct tags.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, bv.Validate(req)...)

	switch models.UserRole(req.Role) {
	case models.RoleStudent:
		if !models.IsValidGradeLevel(req.GradeLevel) {
			errs = append(errs, ValidationError{
				Field:   "grade_level",
				Message: "must be a grade between 1 and 12",
				Value:   req.GradeLevel,
				Rule:    "grade_level",
			})
		}
	case models.RoleTeacher:
		if req.Department != "" && !models.IsValidSubject(req.Department) {
			errs = append(errs, ValidationError{
				Field:   "department",
				Message: "must be a known department",
				Value:   req.Department,
				Rule:    "subject",
			})
		}
	}

	return errs
}

// ValidateGradeSubmit checks score bounds, which struct tags cannot express for floats.
func (bv *BusinessValidator) ValidateGradeSubmit(req *GradeSubmitRequest) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, bv.Validate(req)...)

	if req.MaxScore <= 0 {
		errs = append(errs, ValidationError{
			Field:   "max_score",
			Message: "must be greater than 0",
			Value:   req.MaxScore,
			Rule:    "business_logic",
		})
	}
	if req.Score < 0 {
		errs = append(errs, ValidationError{
			Field:   "score",
			Message: "must not be negative",
			Value:   req.Score,
			Rule:    "business_logic",
		})
	}

	return errs
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("grade_level", func(fl validator.FieldLevel) bool {
		return models.IsValidGradeLevel(fl.Field().String())
	})

	bv.validate.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		return models.IsValidSubject(fl.Field().String())
	})

	bv.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).IsValid()
	})

	// Only student and teacher accounts can be self-registered.
	bv.validate.RegisterValidation("user_role_register", func(fl validator.FieldLevel) bool {
		role := models.UserRole(fl.Field().String())
		return role == models.RoleStudent || role == models.RoleTeacher
	})

	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	bv.validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
}

// ToValidationErrors converts validator output into ValidationErrors.
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "not_blank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "email":
		return "must be a valid email address"
	case "grade_level":
		return "must be a grade between 1 and 12"
	case "subject":
		return "must be a known subject"
	case "attendance_status":
		return "must be present, absent, or late"
	case "user_role_register":
		return "must be student or teacher"
	case "iso_date":
		return "must be a date in YYYY-MM-DD format"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
