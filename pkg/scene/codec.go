package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
)

// Format is a scene document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat parses a format name such as "json" or "toml".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatJSON, FormatTOML:
		return f, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "unknown scene format %q (want json or toml)", name)
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := perrors.ValidateSceneFilename(path); err != nil {
		return "", err
	}
	return ParseFormat(filepath.Ext(path))
}

// Read decodes and validates a scene from r.
func Read(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidScene, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidScene, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, perrors.New(perrors.ErrCodeInvalidScene, "unknown toml key %q", undecoded[0].String())
		}
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes s to w.
func Write(s *Scene, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	default:
		return perrors.New(perrors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	return nil
}

// Marshal returns s encoded in format.
func Marshal(s *Scene, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a scene file. The format follows the extension.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path. The format follows the extension.
func Save(s *Scene, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(s, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
