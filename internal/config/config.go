package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/util"
)

type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Server   ServerConfig   `yaml:"server"`
}

type ModelConfig struct {
	Policy         risk.Policy `yaml:"policy"`
	GramsPerKg     float64     `yaml:"grams_per_kg"`
	TargetPerMille float64     `yaml:"target_per_mille"`
}

type DefaultsConfig struct {
	BodyMassKg    float64  `yaml:"body_mass_kg"`
	DrinkVolumeMl float64  `yaml:"drink_volume_ml"`
	ABVPercent    float64  `yaml:"abv_percent"`
	Coefficient   float64  `yaml:"coefficient"`
	Sex           risk.Sex `yaml:"sex"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	rc := risk.DefaultConfig()
	in := risk.DefaultInputs()
	return &Config{
		Model: ModelConfig{
			Policy:         rc.Policy,
			GramsPerKg:     rc.GramsPerKg,
			TargetPerMille: rc.TargetPerMille,
		},
		Defaults: DefaultsConfig{
			BodyMassKg:    in.BodyMassKg,
			DrinkVolumeMl: in.DrinkVolumeMl,
			ABVPercent:    in.ABVPercent,
			Coefficient:   in.Coefficient,
			Sex:           in.Sex,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load reads config from a YAML file over the built-in defaults, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix DRINKRISK_ and underscore-separated paths:
//
//	DRINKRISK_MODEL_POLICY, DRINKRISK_MODEL_GRAMS_PER_KG, DRINKRISK_MODEL_TARGET_PER_MILLE,
//	DRINKRISK_DEFAULTS_SEX, DRINKRISK_SERVER_HOST, DRINKRISK_SERVER_PORT
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DRINKRISK_MODEL_POLICY"); v != "" {
		p, err := risk.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("DRINKRISK_MODEL_POLICY: %w", err)
		}
		cfg.Model.Policy = p
	}
	if err := envFloat("DRINKRISK_MODEL_GRAMS_PER_KG", &cfg.Model.GramsPerKg); err != nil {
		return err
	}
	if err := envFloat("DRINKRISK_MODEL_TARGET_PER_MILLE", &cfg.Model.TargetPerMille); err != nil {
		return err
	}
	if v := os.Getenv("DRINKRISK_DEFAULTS_SEX"); v != "" {
		s, err := risk.ParseSex(v)
		if err != nil {
			return fmt.Errorf("DRINKRISK_DEFAULTS_SEX: %w", err)
		}
		cfg.Defaults.Sex = s
	}
	if v := os.Getenv("DRINKRISK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DRINKRISK_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DRINKRISK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// ValidateModel checks the model section. It is also used after command-line
// flags have been applied on top of a loaded config.
func (c *Config) ValidateModel() error {
	if !c.Model.Policy.Valid() {
		return errors.New("model.policy is required")
	}
	if !util.Finite(c.Model.GramsPerKg) || c.Model.GramsPerKg <= 0 {
		return errors.New("model.grams_per_kg must be a finite number > 0")
	}
	if !util.Finite(c.Model.TargetPerMille) || c.Model.TargetPerMille <= 0 {
		return errors.New("model.target_per_mille must be a finite number > 0")
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.ValidateModel(); err != nil {
		return err
	}
	d := c.Defaults
	for _, f := range []struct {
		name string
		v    float64
		min  float64
	}{
		{"defaults.body_mass_kg", d.BodyMassKg, risk.MinBodyMassKg},
		{"defaults.drink_volume_ml", d.DrinkVolumeMl, risk.MinDrinkVolumeMl},
		{"defaults.abv_percent", d.ABVPercent, risk.MinABVPercent},
		{"defaults.coefficient", d.Coefficient, risk.MinCoefficient},
	} {
		if !util.Finite(f.v) || f.v < f.min {
			return fmt.Errorf("%s must be a finite number >= %g", f.name, f.min)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// RiskConfig converts the model section for risk.New.
func (c *Config) RiskConfig() *risk.Config {
	return &risk.Config{
		Policy:         c.Model.Policy,
		GramsPerKg:     c.Model.GramsPerKg,
		TargetPerMille: c.Model.TargetPerMille,
	}
}

// Inputs converts the defaults section to model inputs.
func (c *Config) Inputs() risk.Inputs {
	return risk.Inputs{
		BodyMassKg:    c.Defaults.BodyMassKg,
		DrinkVolumeMl: c.Defaults.DrinkVolumeMl,
		ABVPercent:    c.Defaults.ABVPercent,
		Coefficient:   c.Defaults.Coefficient,
		Sex:           c.Defaults.Sex,
	}
}
