// Package preflight validates the run environment before any manifest is
// touched.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"simtagger/internal/config"
	"simtagger/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Addons root", cfg.Paths.AddonsRoot, true),
		CheckDirectoryAccess("Feed root", cfg.Paths.FeedRoot, false),
	}

	// The destination root is created on demand; when it already exists it
	// must be writable.
	if _, err := os.Stat(cfg.Paths.DestRoot); err == nil {
		results = append(results, CheckDirectoryAccess("Destination root", cfg.Paths.DestRoot, true))
	}

	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// plus writable when the run will mutate it.
func CheckDirectoryAccess(name, path string, writable bool) Result {
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

	mode := uint32(unix.R_OK | unix.X_OK)
	detail := "read ok"
	if writable {
		mode |= unix.W_OK
		detail = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, detail)}
}

// Err folds failed results into a fatal configuration error, or nil when
// every check passed.
func Err(results []Result) error {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, result.Name+": "+result.Detail)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check environment", strings.Join(failures, "; "), nil)
}
