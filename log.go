package deckrt

import (
	"fmt"
	"os"
)

// Debug, when true, enables verbose stderr logging from the runtime loop.
// Off by default; callers flip it on for local troubleshooting the same way
// the teacher's Scene.debug flag gates its own stderr diagnostics.
var Debug = false

func debugLog(format string, args ...any) {
	if !Debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[deckrt] "+format+"\n", args...)
}
