package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
	"github.com/relicta-tech/commitkit/internal/fileutil"
)

// Encode renders cfg as yaml, json or toml.
func Encode(cfg *Config, format string) ([]byte, error) {
	const op = "config.Encode"

	switch strings.ToLower(format) {
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, ckerrors.ConfigWrap(err, op, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, ckerrors.ConfigWrap(err, op, "failed to encode yaml")
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, ckerrors.ConfigWrap(err, op, "failed to encode json")
		}
		return append(data, '\n'), nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, ckerrors.ConfigWrap(err, op, "failed to encode toml")
		}
		return data, nil
	default:
		return nil, ckerrors.Config(op, fmt.Sprintf("unsupported config format %q", format))
	}
}

// WriteConfig writes cfg to path, picking the format from the extension.
// Existing files are only replaced when overwrite is set.
func WriteConfig(cfg *Config, path string, overwrite bool) error {
	const op = "config.WriteConfig"

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return ckerrors.Config(op, fmt.Sprintf("%s already exists", path))
		}
	}

	data, err := Encode(cfg, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	if err := fileutil.AtomicWriteFile(path, data, 0o644); err != nil {
		return ckerrors.IOWrap(err, op, "failed to write config file")
	}
	return nil
}

// DefaultConfigPath returns the config path for format inside dir.
func DefaultConfigPath(dir, format string) string {
	return filepath.Join(dir, ConfigFileNames[0]+"."+format)
}
