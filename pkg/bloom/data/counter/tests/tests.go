package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter"
)

func RunTests(t *testing.T, s counter.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s counter.Store){
		testHappyPath,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s counter.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		for i := uint64(1); i <= 5; i++ {
			actual, err := s.GetNext(ctx, "transaction")
			require.NoError(t, err)
			assert.Equal(t, i, actual)
		}

		// Keys are independent sequences
		actual, err := s.GetNext(ctx, "refund")
		require.NoError(t, err)
		assert.EqualValues(t, 1, actual)

		actual, err = s.GetNext(ctx, "transaction")
		require.NoError(t, err)
		assert.EqualValues(t, 6, actual)
	})
}
