package validator

import (
	"fmt"

	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

// StructureValidator checks a questionnaire node forest before it is
// persisted. Scoring itself tolerates malformed structures; validation
// here keeps authors from saving templates that would score to zeros.
type StructureValidator struct{}

func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Validate walks the forest and collects every problem rather than
// stopping at the first one.
func (v *StructureValidator) Validate(structure []*scoring.QuestionnaireNode) ValidationErrors {
	var errs ValidationErrors
	if len(structure) == 0 {
		errs = append(errs, *NewValidationError("structure", "structure must contain at least one node", nil))
		return errs
	}

	seen := make(map[string]bool)
	for i, node := range structure {
		errs = append(errs, v.validateNode(node, fmt.Sprintf("structure[%d]", i), seen)...)
	}
	return errs
}

func (v *StructureValidator) validateNode(node *scoring.QuestionnaireNode, field string, seen map[string]bool) ValidationErrors {
	var errs ValidationErrors

	if node == nil {
		errs = append(errs, *NewValidationError(field, "node cannot be null", nil))
		return errs
	}
	if node.ID == "" {
		errs = append(errs, *NewValidationError(field+".id", "node id is required", nil))
	} else if seen[node.ID] {
		errs = append(errs, *NewValidationError(field+".id", "duplicate node id", node.ID))
	} else {
		seen[node.ID] = true
	}
	if node.Title == "" {
		errs = append(errs, *NewValidationError(field+".title", "node title is required", nil))
	}
	if node.Weight != nil && *node.Weight < 0 {
		errs = append(errs, *NewValidationError(field+".weight", "weight cannot be negative", *node.Weight))
	}

	switch node.Type {
	case scoring.NodeGroup:
		if len(node.Children) == 0 {
			errs = append(errs, *NewValidationError(field+".children", "group must contain at least one child", node.ID))
		}
		for i, child := range node.Children {
			errs = append(errs, v.validateNode(child, fmt.Sprintf("%s.children[%d]", field, i), seen)...)
		}
	case scoring.NodeQuestion:
		errs = append(errs, v.validateQuestion(node, field)...)
	default:
		errs = append(errs, *NewValidationError(field+".type", "unknown node type", string(node.Type)))
	}

	return errs
}

func (v *StructureValidator) validateQuestion(node *scoring.QuestionnaireNode, field string) ValidationErrors {
	var errs ValidationErrors

	if len(node.Children) > 0 {
		errs = append(errs, *NewValidationError(field+".children", "question node cannot have children", node.ID))
	}

	switch node.InputType {
	case scoring.InputSingleChoice, scoring.InputMultipleChoice:
		if len(node.Options) < 2 {
			errs = append(errs, *NewValidationError(field+".options", "choice question must have at least 2 options", node.ID))
		}
		optionIDs := make(map[string]bool)
		for i, opt := range node.Options {
			optField := fmt.Sprintf("%s.options[%d]", field, i)
			if opt.ID == "" {
				errs = append(errs, *NewValidationError(optField+".id", "option id is required", nil))
			} else if optionIDs[opt.ID] {
				errs = append(errs, *NewValidationError(optField+".id", "duplicate option id", opt.ID))
			} else {
				optionIDs[opt.ID] = true
			}
		}
	case scoring.InputScale:
		if node.ScaleMin != nil && node.ScaleMax != nil && *node.ScaleMin > *node.ScaleMax {
			errs = append(errs, *NewValidationError(field+".scale_min", "scale minimum cannot exceed maximum", *node.ScaleMin))
		}
		if node.ScaleMin == nil && node.ScaleMax == nil && len(node.Options) == 0 {
			errs = append(errs, *NewValidationError(field+".scale_min", "scale question needs explicit bounds or options", node.ID))
		}
	case scoring.InputNumber, scoring.InputText:
		// No extra constraints.
	default:
		errs = append(errs, *NewValidationError(field+".input_type", "unknown input type", string(node.InputType)))
	}

	return errs
}
