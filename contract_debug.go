//go:build compositordebug

package compositor

import "fmt"

func contractf(ok bool, format string, args ...any) {
	if !ok {
		panic("compositor: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
