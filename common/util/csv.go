// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"bufio"
	"strings"
)

// ReadLines parses the fields of each line of a csv stream. Quoted fields may
// contain the separator, escaped quotes ("") and line breaks. Blank lines and
// lines starting with '#' are skipped. Parsing stops when handler returns false.
func ReadLines(sc *bufio.Scanner, sep rune, handler func(int, []string) bool) error {
	lineCount := 0
	var fields []string
	builder := strings.Builder{}
	quoted := false
	for sc.Scan() {
		line := []rune(sc.Text())
		if quoted {
			builder.WriteString("\n")
		} else if trimmed := strings.TrimSpace(string(line)); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lineCount++
			continue
		}
		for i := 0; i < len(line); i++ {
			switch {
			case line[i] == sep && !quoted:
				fields = append(fields, builder.String())
				builder.Reset()
			case line[i] == '"' && quoted:
				if i+1 < len(line) && line[i+1] == '"' {
					i++
					builder.WriteRune('"')
				} else {
					quoted = false
				}
			case line[i] == '"':
				quoted = true
			default:
				builder.WriteRune(line[i])
			}
		}
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if !handler(lineCount, fields) {
				return nil
			}
			fields = nil
		}
		lineCount++
	}
	return sc.Err()
}
