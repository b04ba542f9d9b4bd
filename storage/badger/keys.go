package badger

import (
	"fmt"

	"github.com/poiesic/scholarseek/core"
)

// Key prefixes for different data types
const (
	projectPrefix  = "projrec"
	analysisPrefix = "anlyrec"
)

// makeProjectKey generates a key for a project by its UUID.
func makeProjectKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", projectPrefix, id))
}

// makeAnalysisKey generates a key for an analysis record by its content ID.
// The ID is content-derived from the profile URL, so lookups by URL compute
// the ID rather than consulting a secondary index.
func makeAnalysisKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", analysisPrefix, id))
}
