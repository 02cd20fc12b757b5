package badger

import (
	"fmt"

	"github.com/poiesic/domus/core"
)

// Key prefixes for different data types
const (
	listingPrefix = "lstrec"
	examplePrefix = "exmrec"
)

// makeListingKey generates a storage key for a listing by its normalized key.
func makeListingKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", listingPrefix, key))
}

// makeExampleKey generates a storage key for a query example by ID.
func makeExampleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", examplePrefix, id))
}
