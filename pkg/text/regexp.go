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

package text

import (
	"bytes"
	"context"
	"io"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

type compiledRule struct {
	rule ReplacementRule
	re   *regexp.Regexp
}

// RegexpTextReplacer implements TextReplacer with compiled regular expressions
type RegexpTextReplacer struct {
	rules []compiledRule
}

var _ TextReplacer = (*RegexpTextReplacer)(nil)

// NewRegexpTextReplacer validates and compiles the rules
func NewRegexpTextReplacer(rules []ReplacementRule) (*RegexpTextReplacer, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		compiled = append(compiled, compiledRule{
			rule: rule,
			re:   regexp.MustCompile(rule.Pattern),
		})
	}

	return &RegexpTextReplacer{rules: compiled}, nil
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpTextReplacer) ReplaceText(ctx context.Context, path string, content io.Reader) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := originalContent
	for _, c := range r.rules {
		// validated in the constructor
		if ok, _ := doublestar.Match(c.rule.FileFilterGlob, path); !ok {
			continue
		}

		matches := c.re.FindAllIndex(current, -1)
		if len(matches) == 0 {
			continue
		}

		zerolog.Ctx(ctx).Debug().
			Str("rule", c.rule.Name).
			Str("path", path).
			Int("matches", len(matches)).
			Msg("applying rule")

		result.ReplacementCount += len(matches)
		current = c.re.ReplaceAll(current, []byte(c.rule.Template))
	}

	result.ModifiedContent = current
	result.WasModified = !bytes.Equal(originalContent, current)
	return result, nil
}

// ValidateRules checks that every rule has a compilable pattern and a valid file filter
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.Pattern == "" {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return errors.Errorf("rule %d (%s): compiling pattern: %w", i, rule.Name, err)
		}
		if rule.FileFilterGlob == "" {
			return errors.Errorf("rule %d (%s): file_filter_glob is required", i, rule.Name)
		}
		if !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d (%s): invalid file_filter_glob %q", i, rule.Name, rule.FileFilterGlob)
		}
	}
	return nil
}
