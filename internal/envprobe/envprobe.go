// Package envprobe provides an injectable view of the process environment.
//
// Credential discovery is driven almost entirely by environment variables,
// so the lookup primitive is passed in rather than read from the process
// globally. Tests supply a Static table and stay parallel-safe; production
// code uses OS.
package envprobe

import "os"

// Lookup reports the value of an environment variable and whether it is
// set at all. A set-but-empty variable returns ("", true).
type Lookup func(name string) (string, bool)

// OS returns a Lookup backed by the real process environment.
func OS() Lookup {
	return os.LookupEnv
}

// Static returns a Lookup backed by a fixed table. Variables absent from
// the table are reported as unset. The table is copied, so later mutation
// of the argument does not affect the returned Lookup.
func Static(vars map[string]string) Lookup {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return func(name string) (string, bool) {
		v, ok := copied[name]
		return v, ok
	}
}
