// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

type Config struct {
	DebugLogging bool             `mapstructure:"debug_logging"`
	LogFormat    string           `mapstructure:"log_format"`
	Workers      int              `mapstructure:"workers"`
	MaxHistory   int              `mapstructure:"max_history"`
	OutputDir    string           `mapstructure:"output_dir"`
	ExportFormat string           `mapstructure:"export_format"`
	JournalDir   string           `mapstructure:"journal_dir"`
	Scenarios    []ScenarioConfig `mapstructure:"scenarios"`
}

// ScenarioConfig describes one curve and the trades replayed against it.
type ScenarioConfig struct {
	Name        string       `mapstructure:"name"`
	StopOnError bool         `mapstructure:"stop_on_error"`
	Curve       CurveConfig  `mapstructure:"curve"`
	Steps       []StepConfig `mapstructure:"steps"`
}

// CurveConfig mirrors curve.Params. Reserve and Supply are decimal strings
// so they keep full fixed-point precision.
type CurveConfig struct {
	Type            string  `mapstructure:"type"`
	Reserve         string  `mapstructure:"reserve"`
	Supply          string  `mapstructure:"supply"`
	ConnectorWeight float64 `mapstructure:"connector_weight"`
	Slope           float64 `mapstructure:"slope"`
	Coefficient     float64 `mapstructure:"coefficient"`
	Exponent        float64 `mapstructure:"exponent"`
	Constant        float64 `mapstructure:"constant"`
	MaxPrice        float64 `mapstructure:"max_price"`
	Steepness       float64 `mapstructure:"steepness"`
	Midpoint        float64 `mapstructure:"midpoint"`
}

type StepConfig struct {
	Action string `mapstructure:"action"`
	Amount string `mapstructure:"amount"`
	Repeat int    `mapstructure:"repeat"`
}

// Step actions.
const (
	ActionBuy   = "buy"
	ActionSell  = "sell"
	ActionPrice = "price"
)

const (
	DefaultWorkers      = 4
	DefaultMaxHistory   = 1000
	DefaultOutputDir    = "reports"
	DefaultExportFormat = "csv"
	DefaultLogFormat    = "pretty"

	EnvPrefix = "CURVESIM"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"log_format":    DefaultLogFormat,
		"workers":       DefaultWorkers,
		"max_history":   DefaultMaxHistory,
		"output_dir":    DefaultOutputDir,
		"export_format": DefaultExportFormat,
		"journal_dir":   "",
		"debug_logging": false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	loadEnvironmentVariables(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	return &cfg, validateConfig(&cfg)
}

// loadEnvironmentVariables lets CURVESIM_<KEY> override any top-level key.
func loadEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func validateConfig(cfg *Config) error {
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	switch strings.ToLower(cfg.ExportFormat) {
	case "csv", "json", "yaml":
	default:
		return fmt.Errorf("invalid export_format %q", cfg.ExportFormat)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid log_format %q", cfg.LogFormat)
	}

	if len(cfg.Scenarios) == 0 {
		return errors.New("scenarios list is empty")
	}
	seen := make(map[string]struct{}, len(cfg.Scenarios))
	journals := make(map[string]string, len(cfg.Scenarios))
	for i := range cfg.Scenarios {
		sc := &cfg.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("scenario #%d has no name", i+1)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = struct{}{}

		file := sc.JournalFile()
		if other, clash := journals[file]; clash {
			return fmt.Errorf("scenarios %q and %q share journal file %s", other, sc.Name, file)
		}
		journals[file] = sc.Name

		if err := sc.validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	if cfg.MaxHistory <= 0 {
		return errors.New("invalid max_history")
	}
	return nil
}

func (sc *ScenarioConfig) validate() error {
	if _, err := sc.Curve.Params(); err != nil {
		return err
	}
	if len(sc.Steps) == 0 {
		return errors.New("no steps")
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		step.Action = strings.ToLower(strings.TrimSpace(step.Action))
		if step.Repeat < 0 {
			return fmt.Errorf("step %d: negative repeat", i+1)
		}
		switch step.Action {
		case ActionBuy, ActionSell:
			if _, err := step.Value(); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		case ActionPrice:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
	}
	return nil
}

// JournalFile is the file name under journal_dir that receives the
// scenario's trades. Path separators and spaces become underscores.
func (sc ScenarioConfig) JournalFile() string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, sc.Name)
	return name + ".csv"
}

// Params converts the curve section into constructor arguments. It only
// checks syntax; parameter ranges are validated by the curve constructors.
func (c CurveConfig) Params() (curve.Params, error) {
	typ, err := curve.ParseType(c.Type)
	if err != nil {
		return curve.Params{}, err
	}
	reserve, err := parseOptional("reserve", c.Reserve)
	if err != nil {
		return curve.Params{}, err
	}
	supply, err := parseOptional("supply", c.Supply)
	if err != nil {
		return curve.Params{}, err
	}

	return curve.Params{
		Type:            typ,
		Reserve:         reserve,
		Supply:          supply,
		ConnectorWeight: c.ConnectorWeight,
		Slope:           c.Slope,
		Coefficient:     c.Coefficient,
		Exponent:        c.Exponent,
		Constant:        c.Constant,
		MaxPrice:        c.MaxPrice,
		Steepness:       c.Steepness,
		Midpoint:        c.Midpoint,
	}, nil
}

// Value parses the step amount.
func (s StepConfig) Value() (fixed.Decimal, error) {
	if strings.TrimSpace(s.Amount) == "" {
		return fixed.Zero, errors.New("missing amount")
	}
	d, err := fixed.Parse(s.Amount)
	if err != nil {
		return fixed.Zero, fmt.Errorf("invalid amount %q: %w", s.Amount, err)
	}
	return d, nil
}

// Times returns how often the step runs; zero means once.
func (s StepConfig) Times() int {
	if s.Repeat <= 0 {
		return 1
	}
	return s.Repeat
}

func parseOptional(field, s string) (fixed.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return fixed.Zero, nil
	}
	d, err := fixed.Parse(s)
	if err != nil {
		return fixed.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}
