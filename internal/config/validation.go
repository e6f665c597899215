package config

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("baseurl", func(fl validator.FieldLevel) bool {
			return IsValidBaseURL(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// IsValidBaseURL accepts "/" or an absolute http(s) URL with a host.
func IsValidBaseURL(raw string) bool {
	if raw == "/" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateConfig checks cfg after defaults have been applied. The first
// failing field is reported as a config error carrying its YAML path.
func ValidateConfig(cfg *Config) error {
	err := configValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ferrors.ConfigError("invalid configuration").WithCause(err).Build()
	}

	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	return ferrors.ConfigError("invalid configuration value for "+field).
		WithContext("field", field).
		WithContext("rule", fe.Tag()).
		WithContext("value", fe.Value()).
		WithContext("violations", len(fieldErrs)).
		Build()
}
