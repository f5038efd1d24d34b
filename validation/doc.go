// Package validation provides validation for configuration and plan
// definitions.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as an
// *errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type Stage struct {
//	    Op string `yaml:"op" validate:"required,oneof=map filter take"`
//	    N  int    `yaml:"n" validate:"gte=0"`
//	}
//	err := validation.Validate(stage)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Min("stages[0].n", n, 0)
//	err := v.Validate()
package validation
