package intent

import (
	"testing"

	"stocky/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Valid(t *testing.T) {
	price := decimal.RequireFromString("15")
	sellPrice := decimal.RequireFromString("20.50")

	tests := []struct {
		name string
		raw  string
		want models.Action
	}{
		{"add with price", `{"action":"add","item":"coke","qty":10,"price":15}`, models.AddStock{Item: "coke", Quantity: 10, Price: &price}},
		{"add numeric string qty", `{"action":"add","item":"coke","qty":"10"}`, models.AddStock{Item: "coke", Quantity: 10}},
		{"sell string price", `{"action":"sell","item":"coke","qty":3.0,"price":"20.50"}`, models.SellStock{Item: "coke", Quantity: 3, Price: &sellPrice}},
		{"setmin zero", `{"action":"setmin","item":"coke","qty":0}`, models.SetMinimum{Item: "coke", Minimum: 0}},
		{"setcat", `{"action":"setcat","item":"coke","category":"Drinks"}`, models.SetCategory{Item: "coke", Category: "Drinks"}},
		{"setsupplier", `{"action":"setsupplier","item":"coke","supplier":"ABC Corp","contact":"0917"}`, models.SetSupplier{Item: "coke", Supplier: models.Supplier{Name: "ABC Corp", Contact: "0917"}}},
		{"query", `{"action":"query","item":"coke"}`, models.QueryStock{Item: "coke"}},
		{"remove", `{"action":"remove","item":"coke"}`, models.RemoveItem{Item: "coke"}},
		{"wipe", `{"action":"wipe"}`, models.WipeInventory{}},
		{"show uppercase", `{"action":"SHOW"}`, models.ShowInventory{}},
		{"low", `{"action":"low"}`, models.ShowLowStock{}},
		{"code fence", "```json\n{\"action\":\"sell\",\"item\":\"coke\",\"qty\":2}\n```", models.SellStock{Item: "coke", Quantity: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Action)
		})
	}
}

func TestParseCommand_KeepsReply(t *testing.T) {
	cmd, err := ParseCommand(`{"action":"show","reply":"  Here you go. "}`)
	require.NoError(t, err)
	assert.Equal(t, "Here you go.", cmd.Reply)
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", "sorry, I cannot help", ErrInvalidSchema},
		{"broken json", `{"action":`, ErrInvalidSchema},
		{"none", `{"action":"none"}`, ErrNoIntent},
		{"missing action", `{"item":"coke"}`, ErrNoIntent},
		{"unknown action", `{"action":"teleport","item":"coke"}`, ErrInvalidSchema},
		{"missing item", `{"action":"add","qty":3}`, ErrInvalidItem},
		{"missing qty", `{"action":"add","item":"coke"}`, ErrInvalidQuantity},
		{"zero qty", `{"action":"sell","item":"coke","qty":0}`, ErrInvalidQuantity},
		{"negative qty", `{"action":"add","item":"coke","qty":-2}`, ErrInvalidQuantity},
		{"fractional qty", `{"action":"add","item":"coke","qty":2.5}`, ErrInvalidQuantity},
		{"word qty", `{"action":"add","item":"coke","qty":"ten"}`, ErrInvalidQuantity},
		{"huge integer qty", `{"action":"add","item":"coke","qty":9223372036854775807}`, ErrInvalidQuantity},
		{"huge string qty", `{"action":"add","item":"coke","qty":"3000000000"}`, ErrInvalidQuantity},
		{"negative minimum", `{"action":"setmin","item":"coke","qty":-1}`, ErrInvalidQuantity},
		{"bad price", `{"action":"add","item":"coke","qty":1,"price":"cheap"}`, ErrInvalidPrice},
		{"negative price", `{"action":"add","item":"coke","qty":1,"price":-3}`, ErrInvalidPrice},
		{"setcat without category", `{"action":"setcat","item":"coke"}`, ErrInvalidSchema},
		{"setsupplier without supplier", `{"action":"setsupplier","item":"coke"}`, ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.raw)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
