package data

import "os"

// FileExists reports whether path exists, file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
