package capture

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const maxCaptureFileSize = 256 * 1024 * 1024

// File is the on-disk layout of a capture file.
type File struct {
	Exchanges []models.Exchange `json:"exchanges" yaml:"exchanges"`
}

// LoadFile reads exchanges from a YAML or JSON capture file. The format is
// chosen by extension; anything other than .json is parsed as YAML. Line
// endings of request and response texts are normalized to LF.
func LoadFile(path string, logger zerolog.Logger) ([]models.Exchange, error) {
	data, err := common.NewFileReader(logger).ReadFile(path, common.FileReadOptions{MaxSize: maxCaptureFileSize})
	if err != nil {
		return nil, common.WrapError(err, "failed to read capture file")
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes capture data in the format named by ext
func Parse(data []byte, ext string) ([]models.Exchange, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, common.WrapError(err, "failed to parse JSON capture file")
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, common.WrapError(err, "failed to parse YAML capture file")
		}
	}

	exchanges := make([]models.Exchange, len(file.Exchanges))
	for i, ex := range file.Exchanges {
		exchanges[i] = ex.Normalized()
	}
	return exchanges, nil
}
