// Package cfgloader loads and validates configuration at application start.
//
// The file config/<ENVIRONMENT>.yaml is read, ${VAR} references in it are
// expanded, and the result is unmarshaled into the config struct. Fields with
// an `env` tag are then overridden from the environment, `default` tags fill
// remaining zero values, and `validate` tags are checked with
// go-playground/validator. Fields tagged `mask:"true"` are starred out when
// the config is printed.
package cfgloader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const defaultDir = "config"

// MustLoad is Load that logs the failure and exits the process.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		slog.Error("[cfgloader]: " + err.Error())
		os.Exit(1)
	}
	return cfg
}

// Load reads configuration of type T. T must not be a pointer.
func Load[T any](opts ...Option) (T, error) {
	var cfg T

	o := Options{Dir: defaultDir}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return cfg, errx.New("config type must not be a pointer")
	}

	_ = godotenv.Load()

	environment, err := resolveEnvironment(o.Environment)
	if err != nil {
		return cfg, err
	}

	path := filepath.Join(o.Dir, environment+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	if err = env.Parse(&cfg); err != nil {
		return cfg, errx.Wrap(err)
	}

	if err = defaults.Set(&cfg); err != nil {
		return cfg, errx.Wrap(err)
	}

	if err = validate(&cfg, environment); err != nil {
		return cfg, err
	}

	if !o.Silent {
		printConfig(cfg)
	}

	return cfg, nil
}

func resolveEnvironment(override string) (string, error) {
	environment := override
	if environment == "" {
		environment = os.Getenv("ENVIRONMENT")
	}

	choices := []string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}
	if !slices.Contains(choices, environment) {
		return "", errx.New(
			fmt.Sprintf("ENVIRONMENT is not set or invalid, choices are: %s", strings.Join(choices, ", ")),
			errx.WithDetails(errx.D{"environment": environment}),
		)
	}
	return environment, nil
}

func validate(cfg any, environment string) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errx.Wrap(err)
	}

	failed := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule += "=" + fieldErr.Param()
		}
		failed = append(failed, fieldErr.Namespace()+": "+rule)
	}

	return errx.New(
		fmt.Sprintf("invalid fields in %s config -> %s", environment, strings.Join(failed, ", ")),
		errx.WithType(errx.T_Validation),
	)
}
