// Package config loads and validates the build's on-disk configuration
// with yaml.v3 and go-playground/validator.
package config

import (
	"os"

	en "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/lintang-b-s/hierarchybuilder/pkg/server"
)

// Config is the full set of knobs a hierarchy build run needs.
type Config struct {
	Hierarchy struct {
		TileDir      string `yaml:"tile_dir" validate:"required"`
		CacheTiles   int    `yaml:"cache_tiles" validate:"gte=1"`
		PromotionDir string `yaml:"promotion_dir" validate:"required"`
	} `yaml:"hierarchy" validate:"required"`

	AdditionalData struct {
		Elevation string `yaml:"elevation"` // path to a heights grid dataset; empty disables grade sampling
	} `yaml:"additional_data"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
}

// Default returns a Config with every knob that has a sane default
// already filled in; callers still need to set Hierarchy.TileDir.
func Default() Config {
	var c Config
	c.Hierarchy.CacheTiles = 512
	c.Hierarchy.PromotionDir = "./promotion"
	c.Metrics.ListenAddr = ":8099"
	return c
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, server.WrapErrorf(err, server.ErrInternalServerError, "read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, server.WrapErrorf(err, server.ErrBadParamInput, "parse config file %s", path)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate runs struct validation and, on failure, translates the
// first field error into an English sentence.
func Validate(c Config) error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)

		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return server.WrapErrorf(err, server.ErrBadParamInput, "validate config")
		}
		for _, e := range validationErrs {
			return server.WrapErrorf(nil, server.ErrBadParamInput, "%s", e.Translate(trans))
		}
	}
	return nil
}
