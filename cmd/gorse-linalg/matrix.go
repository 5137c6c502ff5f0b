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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gorse-io/linalg/common/util"
	"github.com/gorse-io/linalg/linalg"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// readMatrix parses a comma separated matrix, one row per line.
func readMatrix[T linalg.Float](r io.Reader) (*linalg.Matrix[T], error) {
	var (
		rows    [][]T
		lineErr error
	)
	sc := bufio.NewScanner(r)
	err := util.ReadLines(sc, ',', func(line int, fields []string) bool {
		row := make([]T, len(fields))
		for i, field := range fields {
			row[i], lineErr = util.ParseFloat[T](strings.TrimSpace(field))
			if lineErr != nil {
				lineErr = errors.Annotatef(lineErr, "line %d column %d", line+1, i+1)
				return false
			}
		}
		rows = append(rows, row)
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if lineErr != nil {
		return nil, lineErr
	}
	m, err := linalg.NewMatrixFromRows(rows)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

// loadMatrix reads a matrix from a file, or from stdin if path is "-".
func loadMatrix[T linalg.Float](path string, stdin io.Reader, device linalg.Device) (*linalg.Matrix[T], error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		defer f.Close()
		r = f
	}
	m, err := readMatrix[T](r)
	if err != nil {
		return nil, errors.Annotatef(err, "read %s", path)
	}
	m.Device = device
	return m, nil
}

// printMatrix renders m as a table with 0-based row and column indices.
func printMatrix[T linalg.Float](w io.Writer, name string, m *linalg.Matrix[T]) error {
	if _, err := fmt.Fprintf(w, "%s (%d×%d)\n", name, m.Rows, m.Cols); err != nil {
		return errors.Trace(err)
	}
	table := tablewriter.NewWriter(w)
	table.Header(append([]string{""}, lo.Map(util.RangeInt(m.Cols), func(j int, _ int) string {
		return strconv.Itoa(j)
	})...))
	for i := 0; i < m.Rows; i++ {
		row := append([]string{strconv.Itoa(i)}, lo.Map(m.Row(i), func(x T, _ int) string {
			return util.FormatFloat(x)
		})...)
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func printVector[T linalg.Float](w io.Writer, name string, v []T) error {
	m, err := linalg.NewMatrixFromSlice(1, len(v), v)
	if err != nil {
		return errors.Trace(err)
	}
	return printMatrix(w, name, m)
}
