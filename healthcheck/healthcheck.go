// Package healthcheck implements the result compatibility checker consumed
// by the storage healthcheck gate. It validates that every flow a backend
// tracks declares a result configuration its runs can actually satisfy.
package healthcheck

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/flowstore/core"
)

// ErrIncompatibleResult indicates one or more flows whose result
// configuration cannot be satisfied by how their backend persists outputs.
var ErrIncompatibleResult = errors.New("flow result configuration is incompatible with its storage")

// ResultChecker is the default core.ResultChecker. A flow is incompatible
// when it requires results (it retries or caches task runs) but declares no
// result, or a result without a location to write to.
type ResultChecker struct{}

// Check validates the given flows and fails with an error naming every
// offending flow. Nil flows are skipped.
func (ResultChecker) Check(flows []*core.Flow) error {
	var offenders []string

	for _, f := range flows {
		if f == nil || !f.RequiresResult {
			continue
		}
		if f.Result == nil || f.Result.Location == "" {
			offenders = append(offenders, f.Name)
		}
	}

	if len(offenders) == 0 {
		return nil
	}

	sort.Strings(offenders)

	return fmt.Errorf("%w: %s", ErrIncompatibleResult, strings.Join(offenders, ", "))
}
