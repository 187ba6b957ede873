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

// Package text applies regular-expression rewrite rules to file contents.
package text

import (
	"context"
	"io"
)

// ReplacementRule defines a single regular-expression rewrite
type ReplacementRule struct {
	// Name identifies the rule in logs and errors
	Name string

	// Pattern is an RE2 expression matched against the whole content
	Pattern string

	// Template is the expansion written in place of each match ($1, ${name})
	Template string

	// FileFilterGlob is a doublestar pattern selecting which paths the rule applies to
	FileFilterGlob string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the number of matches rewritten across all rules
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules that select path to the content
	ReplaceText(ctx context.Context, path string, content io.Reader) (*ReplacementResult, error)
}

// ResponseStatusPattern matches a status(200) call whose real status was passed
// as a second json() argument. The captured object literal stops at the first
// closing brace, so literals with nested objects never match.
const ResponseStatusPattern = `return\s+res\.status\(200\)\.json\(\s*(\{[^}]+\})\s*,\s*\{\s*status:\s*(\d+)\s*\}\s*\)`

// DefaultRule returns the built-in rule that moves the status option into status()
func DefaultRule() ReplacementRule {
	return ReplacementRule{
		Name:           "response-status",
		Pattern:        ResponseStatusPattern,
		Template:       `return res.status(${2}).json(${1})`,
		FileFilterGlob: "**",
	}
}
