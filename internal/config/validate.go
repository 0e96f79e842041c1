package config

import (
	"errors"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScalars(); err != nil {
		return err
	}
	if err := c.validateCells(); err != nil {
		return err
	}
	if err := c.validateLengths(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScalars() error {
	if c.Parse.ThreadSleep <= 0 {
		return optionError("parse.thread_sleep", "must be greater than 0, got %v", c.Parse.ThreadSleep)
	}
	if c.Parse.Workers < 1 {
		return optionError("parse.workers", "must be at least 1, got %d", c.Parse.Workers)
	}
	if c.Parse.FileFilter != "" {
		if _, err := regexp.Compile(c.Parse.FileFilter); err != nil {
			return &ConfigurationError{Option: "parse.file_filter", Err: err}
		}
	}
	return nil
}

func (c *Config) validateCells() error {
	if len(c.Parse.CellsToExtract) == 0 {
		return &ConfigurationError{Option: "parse.cells_to_extract", Err: errors.New("at least one cell is required")}
	}

	extracted := make(map[string]struct{}, len(c.Parse.CellsToExtract))
	for _, cell := range c.Parse.CellsToExtract {
		if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
			return optionError("parse.cells_to_extract", "invalid cell reference %q", cell)
		}
		extracted[cell] = struct{}{}
	}

	for _, cell := range c.Parse.CellOrder {
		if _, ok := extracted[cell]; !ok {
			return optionError("parse.cell_order", "cell %q is not in cells_to_extract", cell)
		}
	}
	for _, cell := range c.Parse.IgnoreIfEmpty {
		if _, ok := extracted[cell]; !ok {
			return optionError("parse.ignore_if_empty", "cell %q is not in cells_to_extract", cell)
		}
	}
	for cell := range c.CellFieldThresholds {
		if _, ok := extracted[cell]; !ok {
			return optionError("cell_field_thresholds", "cell %q is not in cells_to_extract", cell)
		}
	}
	return nil
}

func (c *Config) validateLengths() error {
	for cell, n := range c.CellFieldThresholds {
		if n < 0 {
			return optionError("cell_field_thresholds."+cell, "must not be negative, got %d", n)
		}
	}
	for header, n := range c.HeaderFieldLengths {
		if n < 0 {
			return optionError("header_field_lengths."+header, "must not be negative, got %d", n)
		}
	}
	for header, n := range c.HeaderFieldThresholds {
		if n < 0 {
			return optionError("header_field_thresholds."+header, "must not be negative, got %d", n)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigurationError{Option: "logging.level", Err: err}
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
		return nil
	default:
		return optionError("logging.format", "unsupported value %q", c.Logging.Format)
	}
}
