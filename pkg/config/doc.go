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

// Package config builds the immutable configuration for a fix pass.
//
// 📦 Package Structure:
//
//	+-----------+   Parse    +--------+   Validate   +-------------+
//	| .yaml     | ---------> |        | -----------> |             |
//	| .hcl      | ---------> | Config |              | fixer.New() |
//	| .json     | ---------> |        | <- Default() |             |
//	+-----------+            +--------+              +-------------+
//
// 🎯 Purpose:
// - Holds the scan root, include glob, ignore globs and rewrite rules
// - Supplies the zero-argument defaults (pages/api/**/*.ts, built-in rule)
// - Loads optional overrides from YAML, HCL or JSON
//
// 🔄 Flow:
// 1. Default() or Load() produces a Config
// 2. Validate() fills defaults and compiles every rule once
// 3. The Config is passed to the fixer and never mutated after that
//
// 📝 HCL example:
//
//	root    = "web"
//	include = default_include
//	ignore  = ["**/*.gen.ts"]
//
//	rule "next-response" {
//	  pattern     = "NextResponse\\.json\\(([^,]+),\\s*\\{\\s*status:\\s*200\\s*\\}\\)"
//	  replacement = "NextResponse.json($${1})"
//	  files       = "app/**"
//	}
package config
