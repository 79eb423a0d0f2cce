package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

// Validator is the main validator instance that combines struct-tag and
// questionnaire-structure validation
type Validator struct {
	structValidator    *validator.Validate
	structureValidator *StructureValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:    structValidator,
		structureValidator: NewStructureValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateStructure validates a questionnaire node forest
func (v *Validator) ValidateStructure(structure []*scoring.QuestionnaireNode) ValidationErrors {
	return v.structureValidator.Validate(structure)
}

// Structure returns the structure validator
func (v *Validator) Structure() *StructureValidator {
	return v.structureValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("input_type", validateInputType)
	validate.RegisterValidation("questionnaire_status", validateQuestionnaireStatus)
	validate.RegisterValidation("user_role", validateUserRole)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validateInputType(fl validator.FieldLevel) bool {
	switch scoring.InputType(fl.Field().String()) {
	case scoring.InputSingleChoice,
		scoring.InputMultipleChoice,
		scoring.InputScale,
		scoring.InputNumber,
		scoring.InputText:
		return true
	}
	return false
}

func validateQuestionnaireStatus(fl validator.FieldLevel) bool {
	switch models.QuestionnaireStatus(fl.Field().String()) {
	case models.QuestionnaireDraft,
		models.QuestionnaireActive,
		models.QuestionnaireArchived:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleAdmin,
		models.RoleTeacher,
		models.RoleTherapist:
		return true
	}
	return false
}
