package intent

import (
	"testing"

	"stocky/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCopyCommands(t *testing.T) {
	inventory := map[string]int{"coke": 7, "sprite": 4, "chips": 10}
	categories := map[string]string{"coke": "Drinks"}
	suppliers := map[string]models.Supplier{"coke": {Name: "ABC Corp", Contact: "0917"}}

	t.Run("category", func(t *testing.T) {
		actions := ResolveCopyCommands("put sprite in the same category as coke", inventory, categories, suppliers)
		require.Len(t, actions, 1)
		assert.Equal(t, models.SetCategory{Item: "sprite", Category: "Drinks"}, actions[0])
	})

	t.Run("supplier", func(t *testing.T) {
		actions := ResolveCopyCommands("spr same supplier with Coke.", inventory, categories, suppliers)
		require.Len(t, actions, 1)
		assert.Equal(t, models.SetSupplier{Item: "sprite", Supplier: suppliers["coke"]}, actions[0])
	})

	t.Run("both phrases", func(t *testing.T) {
		text := "sprite same category as coke and same supplier as coke"
		actions := ResolveCopyCommands(text, inventory, categories, suppliers)
		require.Len(t, actions, 2)
		assert.Equal(t, models.SetCategory{Item: "sprite", Category: "Drinks"}, actions[0])
		assert.Equal(t, models.SetSupplier{Item: "sprite", Supplier: suppliers["coke"]}, actions[1])
	})

	t.Run("unknown reference is ignored", func(t *testing.T) {
		actions := ResolveCopyCommands("chips same category as sprite", inventory, categories, suppliers)
		assert.Empty(t, actions)
	})

	t.Run("no phrase", func(t *testing.T) {
		assert.Nil(t, ResolveCopyCommands("sold 3 coke", inventory, categories, suppliers))
	})
}
