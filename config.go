package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dnldd/trend/engine"
	"github.com/dnldd/trend/shared"
	"github.com/joho/godotenv"
)

const (
	// defaultOutputDir is the directory results are written to when none is provided.
	defaultOutputDir = "results"
	// bothVariants selects every pipeline variant.
	bothVariants = "both"
)

// Config is the configuration struct for the service.
type Config struct {
	// DataFilepaths are the price data files to analyze.
	DataFilepaths []string
	// OutputDir is the directory csv results are written to.
	OutputDir string
	// Variant is the pipeline variant to run: sensitive, robust or both.
	Variant string
	// PriceField is the price field intervals are enriched with.
	PriceField string
	// ParamsFile is the optional yaml file of pipeline parameters.
	ParamsFile string
	// DBEndpoint is the optional rqlite endpoint results are persisted to.
	DBEndpoint string
	// DBUser is the database user.
	DBUser string
	// DBPass is the database user pass.
	DBPass string
	// Workers is the maximum number of concurrent analyses, the runner default when zero.
	Workers int
	// Debug enables debug level logging.
	Debug bool

	registeredFlags map[string]bool
}

// Variants returns the pipeline variants selected by the config.
func (cfg *Config) Variants() ([]shared.Variant, error) {
	if cfg.Variant == "" || cfg.Variant == bothVariants {
		return []shared.Variant{shared.Sensitive, shared.Robust}, nil
	}

	variant, err := shared.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	return []shared.Variant{variant}, nil
}

// Field returns the enrichment price field selected by the config.
func (cfg *Config) Field() (shared.PriceField, error) {
	if cfg.PriceField == "" {
		return shared.ClosePrice, nil
	}

	return shared.ParsePriceField(cfg.PriceField)
}

// Params returns the pipeline parameters, read from the params file when provided.
func (cfg *Config) Params() (engine.Params, error) {
	if cfg.ParamsFile == "" {
		return engine.DefaultParams(), nil
	}

	return engine.LoadParams(cfg.ParamsFile)
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.DataFilepaths) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no data filepaths provided"))
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}

	_, err := cfg.Variants()
	if err != nil {
		errs = errors.Join(errs, fmt.Errorf("variant must be sensitive, robust or both: %w", err))
	}

	_, err = cfg.Field()
	if err != nil {
		errs = errors.Join(errs, fmt.Errorf("price field must be close, high or low: %w", err))
	}

	if cfg.Workers < 0 {
		errs = errors.Join(errs, fmt.Errorf("workers cannot be negative, got %d", cfg.Workers))
	}
	if cfg.DBEndpoint == "" && (cfg.DBUser != "" || cfg.DBPass != "") {
		errs = errors.Join(errs, fmt.Errorf("database credentials provided without a database endpoint"))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		def := defValue
		if def == "" {
			def = *value.(*string)
		}
		flag.StringVar(value.(*string), name, def, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.Variant == "" {
		cfg.Variant = bothVariants
	}

	// Register command line arguments using loaded environment variables as defaults.
	flags := []struct {
		name  string
		value any
		usage string
	}{
		{"datafilepaths", &cfg.DataFilepaths, "the comma separated price data files (json or csv)"},
		{"outputdir", &cfg.OutputDir, "the directory csv results are written to"},
		{"variant", &cfg.Variant, "the analysis variant: sensitive, robust or both"},
		{"pricefield", &cfg.PriceField, "the price field intervals are enriched with: close, high or low"},
		{"paramsfile", &cfg.ParamsFile, "the yaml file of analysis parameters"},
		{"dbendpoint", &cfg.DBEndpoint, "the rqlite endpoint results are persisted to"},
		{"dbuser", &cfg.DBUser, "the database user"},
		{"dbpass", &cfg.DBPass, "the database user pass"},
		{"workers", &cfg.Workers, "the maximum number of concurrent analyses"},
		{"debug", &cfg.Debug, "enables debug level logging"},
	}

	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
