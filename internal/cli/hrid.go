package cli

import (
	"strings"

	"github.com/reqgraph/reqctl/internal/hrid"
)

// parseHRIDArg parses a user-supplied HRID string, normalizing its KIND
// segment to uppercase before validation. Namespace segment case is
// preserved, matching the CLI boundary contract.
func parseHRIDArg(s string) (hrid.HRID, error) {
	parts := strings.Split(s, "-")
	if len(parts) >= 2 {
		kindIdx := len(parts) - 2
		parts[kindIdx] = strings.ToUpper(parts[kindIdx])
	}
	return hrid.Parse(strings.Join(parts, "-"))
}
