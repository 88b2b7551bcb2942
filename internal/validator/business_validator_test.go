package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(errs ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateRegister(t *testing.T) {
	bv := New().GetBusinessValidator()

	valid := RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "password1",
		Role:       "student",
		FirstName:  "Alice",
		LastName:   "Smith",
		GradeLevel: "5",
	}

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		fields []string
	}{
		{"valid student", func(r *RegisterRequest) {}, nil},
		{"valid teacher without department", func(r *RegisterRequest) {
			r.Role, r.GradeLevel = "teacher", ""
		}, nil},
		{"short username", func(r *RegisterRequest) { r.Username = "abc" }, []string{"username"}},
		{"bad email", func(r *RegisterRequest) { r.Email = "nope" }, []string{"email"}},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, []string{"password"}},
		{"admin role", func(r *RegisterRequest) { r.Role = "admin" }, []string{"role"}},
		{"blank first name", func(r *RegisterRequest) { r.FirstName = "   " }, []string{"first_name"}},
		{"student grade 13", func(r *RegisterRequest) { r.GradeLevel = "13" }, []string{"grade_level"}},
		{"teacher unknown department", func(r *RegisterRequest) {
			r.Role, r.Department = "teacher", "alchemy"
		}, []string{"department"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := bv.ValidateRegister(&req)
			if tt.fields == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.fields, fieldsOf(errs))
		})
	}
}

func TestValidateGradeSubmit(t *testing.T) {
	bv := New().GetBusinessValidator()

	errs := bv.ValidateGradeSubmit(&GradeSubmitRequest{StudentID: 1, ModuleID: 1, Score: 72, MaxScore: 100})
	assert.Empty(t, errs)

	errs = bv.ValidateGradeSubmit(&GradeSubmitRequest{StudentID: 1, ModuleID: 1, Score: -1, MaxScore: 0})
	assert.ElementsMatch(t, []string{"max_score", "score"}, fieldsOf(errs))

	errs = bv.ValidateGradeSubmit(&GradeSubmitRequest{Score: 1, MaxScore: 1})
	assert.ElementsMatch(t, []string{"student_id", "module_id"}, fieldsOf(errs))
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	err := v.Validate(&AttendanceRecordRequest{StudentID: 1, Date: "2024-02-30", Status: "sleeping"})
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"date", "status"}, fieldsOf(errs))

	assert.NoError(t, v.Validate(&AttendanceRecordRequest{StudentID: 1, Date: "2024-02-29", Status: "late"}))

	err = v.Validate(&ModuleCreateRequest{Title: "Fractions", GradeLevel: "0", Subject: "mathematics"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grade_level")
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
	assert.Equal(t, "validation failed: title is required",
		ValidationErrors{{Field: "title", Message: "is required"}}.Error())
	assert.Equal(t, "validation failed: 2 field errors",
		ValidationErrors{{Field: "a"}, {Field: "b"}}.Error())
}
