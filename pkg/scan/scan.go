// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scan enumerates the candidate files for a fix pass.
package scan

import (
	"context"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Files returns every regular file in fsys matching include and none of ignore.
// The whole list is built before returning. Paths are slash separated and
// relative to the root of fsys.
//
// Wildcards never match names starting with a dot; a hidden file or directory
// is only returned when include names it with a dot-prefixed segment. Symlinks
// are followed, and a symlink whose target cannot be resolved fails the walk.
func Files(ctx context.Context, fsys fs.FS, include string, ignore []string) ([]string, error) {
	if !doublestar.ValidatePattern(include) {
		return nil, errors.Errorf("invalid include pattern %q", include)
	}
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	logger := zerolog.Ctx(ctx)
	dotSegments := dotPatternSegments(include)

	var files []string
	err := doublestar.GlobWalk(fsys, include, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if isHidden(path, dotSegments) {
			logger.Debug().Str("path", path).Msg("skipping hidden path")
			return nil
		}

		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := fs.Stat(fsys, path)
			if err != nil {
				return errors.Errorf("resolving symlink %s: %w", path, err)
			}
			mode = info.Mode()
		}
		if !mode.IsRegular() {
			return nil
		}

		if isIgnored(path, ignore) {
			logger.Debug().Str("path", path).Msg("ignoring file")
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %q: %w", include, err)
	}

	logger.Debug().Str("include", include).Int("files", len(files)).Msg("enumerated files")
	return files, nil
}

// dotPatternSegments returns the segments of pattern that start with a dot
func dotPatternSegments(pattern string) []string {
	var out []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") {
			out = append(out, seg)
		}
	}
	return out
}

func isHidden(path string, dotSegments []string) bool {
	for _, seg := range strings.Split(path, "/") {
		if !strings.HasPrefix(seg, ".") {
			continue
		}
		allowed := false
		for _, pattern := range dotSegments {
			if matched, _ := doublestar.Match(pattern, seg); matched {
				allowed = true
				break
			}
		}
		if !allowed {
			return true
		}
	}
	return false
}

func isIgnored(path string, ignore []string) bool {
	for _, pattern := range ignore {
		// patterns are validated before the walk
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
