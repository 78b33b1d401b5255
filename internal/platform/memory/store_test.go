package memory_test

import (
	"testing"

	"github.com/phrazzld/storeboost-api/internal/platform/memory"
	"github.com/phrazzld/storeboost-api/internal/store/storetest"
)

func TestStore(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) storetest.Backend {
		s := memory.New()
		return storetest.Backend{Sessions: s, History: s, Recorder: s}
	})
}
