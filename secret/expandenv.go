package secret

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded via os.ExpandEnv.
//   - `${VAR}` with VAR unset fails with ErrMissingEnv.
//   - `$$` emits a literal `$`.
func ExpandEnvStrict(s string) (string, error) {
	const dollar = "\x00ETAGOPS_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollar)

	missing := map[string]struct{}{}
	for _, m := range envVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok {
			missing[m[1]] = struct{}{}
		}
	}
	if len(missing) > 0 {
		names := slices.Sorted(maps.Keys(missing))
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(names, ", "))
	}

	return strings.ReplaceAll(os.ExpandEnv(s), dollar, "$"), nil
}
