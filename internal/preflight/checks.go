// Package preflight verifies dataset-level preconditions before the pipeline
// writes any output.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"subsample/internal/metadata"
)

// Result captures the outcome of a single named check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckSourceLayout verifies the required source structure: an index file and
// a readable wavs directory.
func CheckSourceLayout(root string) []Result {
	indexPath := filepath.Join(root, metadata.IndexFileName)
	wavsDir := filepath.Join(root, metadata.WavsDirName)
	return []Result{
		checkIndexFile(indexPath),
		checkAssetDir(wavsDir),
	}
}

func checkIndexFile(path string) Result {
	const name = "source index"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

func checkAssetDir(path string) Result {
	const name = "source wavs directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem containing dir has at least required
// bytes available.
func CheckFreeSpace(dir string, required uint64) Result {
	const name = "destination free space"
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", dir, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < required {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %d bytes available, %d required)", dir, available, required)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes available)", dir, available)}
}

// FirstFailure returns the first failed result, or nil when all passed.
func FirstFailure(results []Result) *Result {
	for i := range results {
		if !results[i].Passed {
			return &results[i]
		}
	}
	return nil
}
