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

package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/walteh/apifix/pkg/config"
	"github.com/walteh/apifix/pkg/text"
)

// buildInfo identifies the running binary
type buildInfo struct {
	version  string
	revision string
	dirty    bool
	goVer    string
	platform string
}

func readBuildInfo() buildInfo {
	b := buildInfo{
		version:  "dev",
		goVer:    runtime.Version(),
		platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value
		case "vcs.modified":
			b.dirty = s.Value == "true"
		}
	}
	return b
}

// String renders a single line, e.g. "apifix v1.2.3 (abc1234-dirty) go1.23.5 linux/amd64"
func (b buildInfo) String() string {
	rev := b.revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev == "" {
		rev = "unknown"
	}
	if b.dirty {
		rev += "-dirty"
	}
	return fmt.Sprintf("apifix %s (%s) %s %s", b.version, rev, b.goVer, b.platform)
}

// writeDefaults prints the built-in rule and include glob used when no config is given
func writeDefaults(w io.Writer) error {
	rule := text.DefaultRule()
	_, err := fmt.Fprintf(w, "include: %s\nrule %s:\n  pattern: %s\n  replacement: %s\n",
		config.DefaultInclude, rule.Name, rule.Pattern, rule.Template)
	return err
}

func newVersionCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, readBuildInfo()); err != nil {
				return err
			}
			if !defaults {
				return nil
			}
			return writeDefaults(out)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Also print the built-in include glob and rule")
	return cmd
}
