package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"customerSegmentation/domain"

	"github.com/pobyzaarif/goshortcute"
	"gopkg.in/yaml.v3"
)

// BundleRepository reads an exported bundle from a JSON or YAML file.
type BundleRepository struct {
	path string
}

func NewBundleRepository(path string) *BundleRepository {
	return &BundleRepository{path: path}
}

func (r *BundleRepository) LoadBundle(ctx context.Context) (domain.ModelBundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("context error: %w", err)
	}
	if r.path == "" {
		return domain.ModelBundle{}, errors.New("bundle path is empty")
	}

	data, err := os.ReadFile(filepath.Clean(r.path))
	if err != nil {
		return domain.ModelBundle{}, fmt.Errorf("read bundle file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// InlineBundleRepository reads a base64-encoded JSON bundle, typically from an env var.
type InlineBundleRepository struct {
	encoded string
}

func NewInlineBundleRepository(encoded string) *InlineBundleRepository {
	return &InlineBundleRepository{encoded: encoded}
}

func (r *InlineBundleRepository) LoadBundle(ctx context.Context) (domain.ModelBundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("context error: %w", err)
	}

	encoded := strings.TrimSpace(r.encoded)
	if encoded == "" {
		return domain.ModelBundle{}, errors.New("inline bundle is empty")
	}

	decoded := goshortcute.StringtoBase64Decode(encoded)
	if decoded == "" {
		return domain.ModelBundle{}, errors.New("inline bundle is not valid base64")
	}
	return DecodeJSON([]byte(decoded))
}

// EncodeInline renders b in the format InlineBundleRepository expects.
func EncodeInline(b domain.ModelBundle) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal bundle: %w", err)
	}
	return goshortcute.StringtoBase64Encode(string(data)), nil
}

func DecodeJSON(data []byte) (domain.ModelBundle, error) {
	var b domain.ModelBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("unmarshal bundle json: %w", err)
	}
	return b, nil
}

func DecodeYAML(data []byte) (domain.ModelBundle, error) {
	var b domain.ModelBundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("unmarshal bundle yaml: %w", err)
	}
	return b, nil
}
