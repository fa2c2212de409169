package resources

import (
	"os"
	"path/filepath"
)

const (
	portableFile = "portable.txt"
	portableDir  = "tileflow_UserData"
)

// checkPortable returns the portable path and true if the portable file
// exists in the same directory as the program binary
func checkPortable() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(exe)
	if _, err := os.Stat(filepath.Join(dir, portableFile)); err != nil {
		return "", false
	}
	return filepath.Join(dir, portableDir), true
}
