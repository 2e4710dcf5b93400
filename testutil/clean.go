package testutil

import (
	"os"
	"path/filepath"
)

// CleanDir removes everything in dirname except the entries named in keeps. A missing
// directory is not an error.
func CleanDir(dirname string, keeps []string) error {
	entries, err := os.ReadDir(dirname)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	m := map[string]struct{}{}
	for _, k := range keeps {
		m[k] = struct{}{}
	}

	for _, de := range entries {
		if _, found := m[de.Name()]; found {
			continue
		}
		err = os.RemoveAll(filepath.Join(dirname, de.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}
