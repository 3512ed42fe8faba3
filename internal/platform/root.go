package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the directory the CLI looks for when no explicit data path
// is given.
const DataDirName = ".leetscape"

// FindDataDir looks upwards from startDir for an existing DataDirName
// directory and returns its absolute path. When none is found it returns an
// error; callers typically fall back to creating one in startDir.
func FindDataDir(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, DataDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory found above %s", DataDirName, startDir)
}
