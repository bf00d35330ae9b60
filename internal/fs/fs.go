// Package fs walks target paths and hashes file contents.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// StateDirName is the directory that holds the tool's own history. Walks
// never descend into it.
const StateDirName = ".commentize"

// Files returns every regular file reachable from target. A file target is
// returned as is. Directories are walked depth-first in lexical order and
// symlinks are followed; a directory reached twice through links is only
// walked once. Directories named StateDirName are skipped.
func Files(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	seen := make(map[string]struct{})
	if err := walk(target, seen, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func walk(dir string, seen map[string]struct{}, files *[]string) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if _, ok := seen[real]; ok {
		return nil
	}
	seen[real] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read directory '%s': %w", dir, err)
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		// Stat rather than entry.Type() so that symlinks are resolved.
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if entry.Name() == StateDirName {
				continue
			}
			if err := walk(p, seen, files); err != nil {
				return err
			}
			continue
		}
		if info.Mode().IsRegular() {
			*files = append(*files, p)
		}
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SHA256 returns the hex encoded SHA-256 of data.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GetFileSHA256 hashes the current content of a file.
func GetFileSHA256(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SHA256(data), nil
}

// ProjectRoot returns the root of the enclosing git repository, falling back
// to the current working directory.
func ProjectRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err == nil {
		return strings.TrimSpace(string(output)), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not get current working directory: %w", err)
	}
	return wd, nil
}
