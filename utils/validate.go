package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/ray-remotestate/restroadmin/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Problems collects validation failures and turns them into a single
// validation error.
type Problems struct {
	merr *multierror.Error
}

// Addf records one failure.
func (p *Problems) Addf(format string, args ...any) {
	p.merr = multierror.Append(p.merr, fmt.Errorf(format, args...))
}

// Struct runs the struct tag rules on v and records every failure.
func (p *Problems) Struct(v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		p.merr = multierror.Append(p.merr, err)
		return
	}
	for _, fe := range verrs {
		p.merr = multierror.Append(p.merr, errors.New(describe(fe)))
	}
}

// Err returns nil when nothing was recorded.
func (p *Problems) Err() error {
	if p.merr == nil || len(p.merr.Errors) == 0 {
		return nil
	}
	p.merr.ErrorFormat = joinMessages
	return &models.Error{Kind: models.KindValidation, Message: p.merr.Error(), Err: p.merr}
}

// ValidateStruct is a shorthand for checking a single struct.
func ValidateStruct(v any) error {
	var p Problems
	p.Struct(v)
	return p.Err()
}

func joinMessages(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return field + " must not be empty"
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return field + " is invalid"
}

// fieldPath drops the root struct name from a validator namespace,
// e.g. CreateOrderInput.items[0].quantity -> items[0].quantity.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
