// Package staging performs the recipe's generate step: copying the backend
// source files of the pinned dependency into the build tree and writing the
// toolchain configuration derived from the recipe options.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rymut/recipetool/internal/recipe"
)

// BackendPatterns are the dependency source files the build needs next to
// the backend implementation.
var BackendPatterns = []string{
	"imgui_impl_sdlrenderer2.*",
	"imgui_impl_sdl2.*",
	"imgui_impl_win32.*",
}

const (
	// BackendsDir is the subdirectory of the build tree the sources are
	// staged into.
	BackendsDir = "backends"

	// ToolchainFileName is the generated toolchain configuration file.
	ToolchainFileName = "toolchain.cmake"
)

// Stage copies every backend source matching BackendPatterns from srcDir
// into the backends directory of buildDir and returns the staged paths.
// Patterns without matches are skipped; completeness of the dependency
// sources is the packaging tool's concern, not ours.
func Stage(srcDir, buildDir string) ([]string, error) {
	dst := filepath.Join(buildDir, BackendsDir)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("creating backends directory failed: %w", err)
	}

	var staged []string
	for _, pattern := range BackendPatterns {
		matches, err := filepath.Glob(filepath.Join(srcDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad backend pattern %q: %w", pattern, err)
		}
		for _, src := range matches {
			target := filepath.Join(dst, filepath.Base(src))
			if err := copyFile(src, target); err != nil {
				return nil, err
			}
			staged = append(staged, target)
		}
	}
	return staged, nil
}

// WriteToolchain writes the toolchain configuration for the given options
// into buildDir and returns its path. The fPIC setting is only emitted when
// the option exists for the target OS.
func WriteToolchain(buildDir string, opts recipe.Options) (string, error) {
	var b strings.Builder
	b.WriteString("# generated by recipetool, do not edit\n")
	fmt.Fprintf(&b, "set(BUILD_SHARED_LIBS %s)\n", cmakeBool(opts.Shared))
	if opts.FPIC != nil {
		fmt.Fprintf(&b, "set(CMAKE_POSITION_INDEPENDENT_CODE %s)\n", cmakeBool(*opts.FPIC))
	}

	path := filepath.Join(buildDir, ToolchainFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing toolchain file failed: %w", err)
	}
	return path, nil
}

func cmakeBool(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q failed: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %q failed: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %q failed: %w", src, err)
	}
	return out.Close()
}
