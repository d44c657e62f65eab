package tools

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names as callers spell them
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return validation.ImageReference(fl.Field().String()) == nil
	})
	return v
}

// decodeArgs copies generic tool arguments into out and validates them.
// Type mismatches and failed constraints are reported as invalid params.
func decodeArgs(args map[string]any, out any) error {
	if args == nil {
		args = map[string]any{}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build argument decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return mcp.InvalidParams("invalid arguments: %v", err)
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return mcp.InvalidParams("invalid arguments: %s", describe(verrs))
		}
		return mcp.InvalidParams("invalid arguments: %v", err)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		// Drop the struct name, keep the argument path
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "imageref":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a valid image reference", field, fe.Value()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, bound(fe.Tag()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
