package status

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{Pending, Shipped}:   true,
		{Pending, Cancelled}: true,
		{Shipped, Finished}:  true,
		{Shipped, Cancelled}: true,
	}

	// Every pair outside the table must be rejected, including
	// self-transitions and edges out of terminal states.
	for _, from := range All() {
		for _, to := range All() {
			got := CanTransition(from, to)
			want := allowed[[2]Status{from, to}]
			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition(Finished, Shipped))
	assert.False(t, CanTransition(Cancelled, Pending))
	assert.False(t, CanTransition(Pending, Pending))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, Pending.IsTerminal())
	assert.False(t, Shipped.IsTerminal())
	assert.True(t, Finished.IsTerminal())
	assert.True(t, Cancelled.IsTerminal())
}

func TestParse(t *testing.T) {
	for _, s := range All() {
		parsed, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := Parse("Delivered")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseConfiguredFinishedLabel(t *testing.T) {
	viper.Set("order.finished_label", "Delivered")
	defer viper.Set("order.finished_label", "")

	parsed, err := Parse("Delivered")
	require.NoError(t, err)
	assert.Equal(t, Finished, parsed)
	assert.Equal(t, "Delivered", Finished.Label())
}
