package memory

import (
	"testing"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order/tests"
)

func TestOrderMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
