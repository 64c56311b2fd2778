// Package guard flips the process into test mode on import. Test packages
// that must never reach a real Postgres or Redis blank-import it.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("VENDA_TEST_MODE") == "" {
			_ = os.Setenv("VENDA_TEST_MODE", "1")
		}
	})
}
