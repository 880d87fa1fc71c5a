package forms

import (
	"github.com/go-playground/validator/v10"
	"github.com/hpsconstructions/hps-platform/internal/profile"
)

// Validator checks submitted values against a form's per-action rules.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the site's custom rules registered.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("leadphone", validateLeadPhone)
	return &Validator{validate: v}
}

func validateLeadPhone(fl validator.FieldLevel) bool {
	return profile.ValidPhone(fl.Field().String())
}

// Check validates values for the given action and returns them trimmed.
// Required fields must be non-empty; every non-empty field must satisfy its
// rules, and select fields must hold one of their options. Dismiss actions
// never fail.
func (v *Validator) Check(def Definition, actionID string, values map[string]string) (map[string]string, error) {
	action, ok := def.Action(actionID)
	if !ok {
		return nil, ErrActionNotFound
	}
	normalized := def.Normalize(values)
	if action.Effect == EffectDismiss {
		return normalized, nil
	}

	failures := make(map[string]string)
	for _, f := range def.Fields {
		value := normalized[f.Name]
		if value == "" {
			if action.requires(f.Name) {
				failures[f.Name] = f.Message
			}
			continue
		}
		if f.Kind == KindSelect && len(f.Options) > 0 && !contains(f.Options, value) {
			failures[f.Name] = f.Message
			continue
		}
		if f.Rules != "" {
			if err := v.validate.Var(value, f.Rules); err != nil {
				failures[f.Name] = f.Message
			}
		}
	}
	if len(failures) > 0 {
		return normalized, &ValidationError{Fields: failures}
	}
	return normalized, nil
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
