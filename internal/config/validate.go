package config

import (
	"fmt"

	"github.com/NielsdaWheelz/skeleton/internal/errors"
)

// Validate checks that the configured modes let a second run overwrite
// what the first one wrote.
// Returns E_INVALID_CONFIG with a "field" detail.
func Validate(cfg Config) error {
	if cfg.DirMode&0o300 != 0o300 {
		return invalid("dir_mode", fmt.Sprintf("%#o must grant the owner write and search (0300)", uint32(cfg.DirMode)))
	}
	if cfg.FileMode&0o200 == 0 {
		return invalid("file_mode", fmt.Sprintf("%#o must grant the owner write (0200)", uint32(cfg.FileMode)))
	}
	return nil
}

func invalid(field, msg string) error {
	return errors.NewWithDetails(errors.EInvalidConfig, field+": "+msg, map[string]string{"field": field})
}
