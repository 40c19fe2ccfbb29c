package filesystem

import (
	"os"
	"path/filepath"
)

// AppDirName is the per-user data directory under the home directory.
const AppDirName = ".cmdllm"

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns ~/.cmdllm.
func AppDir() string {
	return filepath.Join(UserHomeDir(), AppDirName)
}

// AppPath joins name onto ~/.cmdllm.
func AppPath(name string) string {
	return filepath.Join(AppDir(), name)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return UserHomeDir()
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return path
}
