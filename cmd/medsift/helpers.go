package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/medsift/medsift/internal/config"
)

// loadConfig assembles the immutable pipeline configuration: built-in
// defaults, optional YAML rule-table overrides, then scalar overrides from
// the viper config file / environment.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if tables := viper.GetString("tables"); tables != "" {
		var err error
		cfg, err = cfg.WithTablesFile(tables)
		if err != nil {
			return cfg, err
		}
	}

	if viper.IsSet("thresholds.processing_confidence") {
		cfg.ProcessingConfidenceThreshold = viper.GetFloat64("thresholds.processing_confidence")
	}
	if viper.IsSet("thresholds.min_ocr_confidence") {
		cfg.MinOCRConfidence = viper.GetFloat64("thresholds.min_ocr_confidence")
	}
	if viper.IsSet("amounts.min") {
		cfg.MinAmountValue = decimal.NewFromFloat(viper.GetFloat64("amounts.min"))
	}
	if viper.IsSet("amounts.max") {
		cfg.MaxAmountValue = decimal.NewFromFloat(viper.GetFloat64("amounts.max"))
	}
	if viper.IsSet("limits.max_input_length") {
		cfg.MaxInputLength = viper.GetInt("limits.max_input_length")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
