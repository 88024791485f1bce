package config

import (
	"errors"
	"strings"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return common.NewConfigurationError("config is nil")
	}

	validate := newValidator()
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return common.WrapError(err, "configuration validation error")
	}

	problems := make([]common.ConfigProblem, 0, len(errs))
	for _, e := range errs {
		problems = append(problems, common.ConfigProblem{
			Field: trimNamespace(e.StructNamespace()),
			Rule:  e.Tag(),
			Param: e.Param(),
			Value: e.Value(),
		})
	}
	return common.NewConfigProblemsError(problems)
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "plain", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "myers", "dmp":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("ratio", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return v >= 0 && v <= 1
	})

	return validate
}

// trimNamespace drops the root struct name from a validator namespace.
func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
