package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/okian/surfcast/internal/domain/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator with the preference tags
// registered. Field names in errors follow the json tags.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "skill", func(s string) error { _, err := model.ParseSkillLevel(s); return err })
		mustRegister(v, "tide", func(s string) error { _, err := model.ParseTidePreference(s); return err })
		mustRegister(v, "board", func(s string) error { _, err := model.ParseBoardType(s); return err })
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, parse func(string) error) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return parse(fl.Field().String()) == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct validates v and reports failures as invalid preferences.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidPreferences, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	return fmt.Sprintf("%s: unsupported value %q", fe.Field(), fe.Value())
}
