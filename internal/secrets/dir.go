package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LoadDir reads every file in dir into a Static provider: the filename is the
// secret name and the trimmed contents are the value.
// A missing directory is not an error and yields an empty provider.
// Dotfiles, subdirectories and empty files are skipped; unreadable files are logged.
func LoadDir(dir string, logger *zap.Logger) (*Static, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Secrets directory does not exist", zap.String("dir", dir))
			return NewStatic(nil), nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("Could not read secret file", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			values[name] = value
		}
	}

	return &Static{values: values}, nil
}
