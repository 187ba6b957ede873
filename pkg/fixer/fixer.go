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

// Package fixer runs rewrite rules over a tree of files and writes back the
// files that change.
package fixer

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/apifix/pkg/config"
	"github.com/walteh/apifix/pkg/log"
	"github.com/walteh/apifix/pkg/scan"
	"github.com/walteh/apifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Banner is printed before the first file is processed
const Banner = "Fixing API response formats..."

// 🔧 Options contains configuration for the fixer
type Options struct {
	// Config is the fix pass configuration; it is validated by New
	Config *config.Config
	// Logger receives the user-facing report; nil discards it
	Logger *log.Logger
	// ShowDiff prints a line diff for every changed file
	ShowDiff bool
}

// 🎮 Fixer applies a fixed set of rules to the files under one root
type Fixer struct {
	root     string
	include  string
	ignore   []string
	dryRun   bool
	showDiff bool
	replacer text.TextReplacer
	logger   *log.Logger

	// writeFile replaces a whole file; os.WriteFile outside of tests
	writeFile func(name string, data []byte, perm fs.FileMode) error
}

// 📊 Summary describes one completed Run
type Summary struct {
	Scanned      int      // files enumerated
	Fixed        []string // files rewritten, in processing order
	Replacements int      // matches rewritten across all files
}

// 🏭 New creates a fixer; the rules are compiled once here
func New(opts Options) (*Fixer, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}

	// validate a copy so the caller's config is never touched
	cfg := *opts.Config
	cfg.Rules = append([]config.Rule(nil), opts.Config.Rules...)
	cfg.Ignore = append([]string(nil), opts.Config.Ignore...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	replacer, err := text.NewRegexpTextReplacer(cfg.ReplacementRules())
	if err != nil {
		return nil, errors.Errorf("compiling rules: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	return &Fixer{
		root:      cfg.Root,
		include:   cfg.Include,
		ignore:    cfg.Ignore,
		dryRun:    cfg.DryRun,
		showDiff:  opts.ShowDiff,
		replacer:  replacer,
		logger:    logger,
		writeFile: os.WriteFile,
	}, nil
}

// 🔍 Files enumerates the candidate files, relative to the root
func (f *Fixer) Files(ctx context.Context) ([]string, error) {
	files, err := scan.Files(ctx, os.DirFS(f.root), f.include, f.ignore)
	if err != nil {
		return nil, errors.Errorf("enumerating files under %s: %w", f.root, err)
	}
	return files, nil
}

// 🩹 FixFile rewrites one file if any rule changes it and reports whether it did.
// path is relative to the root.
func (f *Fixer) FixFile(ctx context.Context, path string) (bool, error) {
	result, err := f.fixFile(ctx, path)
	if err != nil {
		return false, err
	}
	return result != nil, nil
}

// fixFile returns nil when the file was left alone
func (f *Fixer) fixFile(ctx context.Context, path string) (*text.ReplacementResult, error) {
	full := filepath.Join(f.root, filepath.FromSlash(path))

	info, err := os.Stat(full)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	// files are handled as UTF-8 text; anything else aborts the pass
	if !utf8.Valid(content) {
		return nil, errors.Errorf("reading %s: invalid UTF-8", path)
	}

	result, err := f.replacer.ReplaceText(ctx, path, bytes.NewReader(content))
	if err != nil {
		return nil, errors.Errorf("rewriting %s: %w", path, err)
	}

	if !result.WasModified {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no change")
		return nil, nil
	}

	if !f.dryRun {
		if err := f.writeFile(full, result.ModifiedContent, info.Mode().Perm()); err != nil {
			return nil, errors.Errorf("writing %s: %w", path, err)
		}
	}

	f.logger.LogFileOperation(ctx, log.FileOperation{
		Path:         path,
		Replacements: result.ReplacementCount,
		DryRun:       f.dryRun,
	})
	if f.showDiff {
		f.logger.LogDiff(text.LineDiff(result.OriginalContent, result.ModifiedContent))
	}

	return result, nil
}

// 🏃 Run fixes every enumerated file in order and stops at the first error.
// Files written before the error stay written.
func (f *Fixer) Run(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	f.logger.Header(Banner)

	files, err := f.Files(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Scanned: len(files)}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("fix pass cancelled after %d files: %w", len(summary.Fixed), err)
		}

		result, err := f.fixFile(ctx, path)
		if err != nil {
			return summary, err
		}
		if result == nil {
			continue
		}

		summary.Fixed = append(summary.Fixed, path)
		summary.Replacements += result.ReplacementCount
	}

	f.logger.Summary(len(summary.Fixed), f.dryRun)

	logger.Debug().
		Int("scanned", summary.Scanned).
		Int("fixed", len(summary.Fixed)).
		Int("replacements", summary.Replacements).
		Msg("run complete")

	return summary, nil
}
