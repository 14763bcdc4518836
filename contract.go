//go:build !compositordebug

package compositor

import "fmt"

// contractf reports a broken internal invariant. Release builds log it and
// carry on; builds tagged compositordebug panic.
func contractf(ok bool, format string, args ...any) {
	if !ok {
		Logger().Warn("compositor: invariant violated", "detail", fmt.Sprintf(format, args...))
	}
}
