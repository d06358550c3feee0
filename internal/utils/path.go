package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ResolveFile finds a data file, trying in order:
// 1. The path as given (absolute, or relative to the working directory)
// 2. Relative to the executable directory
// 3. Relative to extraDirs
//
// It returns the path as given when nothing matches, for error reporting.
func ResolveFile(path string, extraDirs ...string) string {
	if path == "" || FileExists(path) || filepath.IsAbs(path) {
		return path
	}
	var candidates []string
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, path))
	}
	for _, dir := range extraDirs {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	for _, c := range candidates {
		if FileExists(c) {
			log.Debugf("Resolved %s to %s", path, c)
			return c
		}
		log.Debugf("Candidate not found: %s", c)
	}
	return path
}

// FileSize returns the size of a file in bytes, or -1.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
