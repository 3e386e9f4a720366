// Package validator validates request and domain structs.
//
// Callers depend on Validator; V10Validator is the go-playground/validator
// implementation with English messages and the project specific tags
// "password", "phone", "personname" and "nationalcode".
package validator

// Validator checks a struct against its `validate` tags.
type Validator interface {
	Validate(data any) error
}
