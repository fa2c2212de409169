//go:build !release

package resources

const configDir = ".tileflow"

func resourcePath() (string, error) {
	return configDir, nil
}
