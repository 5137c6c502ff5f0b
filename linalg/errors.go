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

package linalg

import (
	"fmt"

	"github.com/juju/errors"
)

var (
	ErrSingular      = errors.New("matrix is singular")
	ErrNotConverged  = errors.New("singular value decomposition did not converge")
	ErrRankDeficient = errors.New("matrix does not have full rank")
)

// StatusError is a positive info code returned by a LAPACK or cuSOLVER routine.
type StatusError struct {
	Routine string
	Info    int
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %v (info = %d)", e.Routine, e.Err, e.Info)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// checkInfo interprets the info code of routine.
func checkInfo(routine string, info int) error {
	switch {
	case info == 0:
		return nil
	case info < 0:
		return errors.NotValidf("argument %d of %s", -info, routine)
	}
	var cause error
	switch routine {
	case "getrf", "getri", "getrs":
		cause = ErrSingular
	case "gesvd":
		cause = ErrNotConverged
	case "gels", "geqrf", "trsm":
		cause = ErrRankDeficient
	default:
		return errors.Errorf("%s: info = %d", routine, info)
	}
	return errors.Trace(&StatusError{Routine: routine, Info: info, Err: cause})
}
