package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalController_OpenModal(t *testing.T) {
	c := NewModalController()

	assert.Equal(t, TenderUnknown, c.ActiveModal())
	assert.Nil(t, c.Context())

	c.OpenModal(TenderCash, 2500)

	assert.Equal(t, TenderCash, c.ActiveModal())
	ctx := c.Context()
	require.NotNil(t, ctx)
	assert.Equal(t, ModalModeSingle, ctx.Mode)
	assert.EqualValues(t, 2500, ctx.Amount)
	assert.Empty(t, ctx.RowID)

	// Opening another modal replaces the context outright
	c.OpenRowModal(TenderCheck, 1000, "split-2")

	assert.Equal(t, TenderCheck, c.ActiveModal())
	ctx = c.Context()
	require.NotNil(t, ctx)
	assert.Equal(t, ModalModeSplit, ctx.Mode)
	assert.EqualValues(t, 1000, ctx.Amount)
	assert.Equal(t, "split-2", ctx.RowID)
}

func TestModalController_CloseModal(t *testing.T) {
	c := NewModalController()

	// Closing with nothing open is fine
	c.CloseModal()

	c.OpenModal(TenderGiftCard, 500)
	c.CloseModal()

	assert.Equal(t, TenderUnknown, c.ActiveModal())
	assert.Nil(t, c.Context())
}

func TestModalController_ResetAll(t *testing.T) {
	c := NewModalController()

	c.OpenModal(TenderCardSquare, 3000)
	c.ShowNotification()
	c.ShowGiftCardHandoff()
	c.ShowAdjustments()

	assert.True(t, c.IsNotificationShown())
	assert.True(t, c.IsGiftCardHandoffShown())
	assert.True(t, c.IsAdjustmentsShown())

	c.ResetAll()

	assert.Equal(t, TenderUnknown, c.ActiveModal())
	assert.Nil(t, c.Context())
	assert.False(t, c.IsNotificationShown())
	assert.False(t, c.IsGiftCardHandoffShown())
	assert.False(t, c.IsAdjustmentsShown())
}
