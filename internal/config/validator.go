package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	containerNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("container_name", func(fl validator.FieldLevel) bool {
			return containerNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateFacility performs schema and structural validation on a facility
// document.
func ValidateFacility(f *Facility) error {
	if f == nil {
		return fdperrors.NewValidationError("facility", "document is nil", nil)
	}

	if err := validatorInstance().Struct(f); err != nil {
		return convertValidationError(err)
	}

	return f.Container.Walk(func(path []string, c *Container) error {
		seen := make(map[string]struct{}, len(c.Containers))
		for i, child := range c.Containers {
			field := fieldForContainer(path, i)
			if child.Name == "" {
				return fdperrors.NewValidationError(field, "name is required", nil)
			}
			if _, dup := seen[child.Name]; dup {
				return fdperrors.NewValidationError(field, fmt.Sprintf("duplicate container %q", child.Name), nil)
			}
			seen[child.Name] = struct{}{}
		}
		return nil
	})
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return fdperrors.NewValidationError(field, msg, err)
	}

	return fdperrors.NewValidationError("facility", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForContainer(path []string, index int) string {
	if len(path) == 0 {
		return fmt.Sprintf("containers[%d]", index)
	}
	return fmt.Sprintf("%s.containers[%d]", strings.Join(path, "."), index)
}
