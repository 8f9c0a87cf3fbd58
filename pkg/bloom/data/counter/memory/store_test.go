package memory

import (
	"testing"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter/tests"
)

func TestCounterMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
