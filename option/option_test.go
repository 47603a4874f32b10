package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEuropean_Validates(t *testing.T) {
	_, err := NewEuropean(0, 1, Call)
	require.Error(t, err)

	_, err = NewEuropean(100, 0, Call)
	require.Error(t, err)

	c, err := NewEuropean(100, 1, Call)
	require.NoError(t, err)
	assert.Equal(t, European, c.Family())
}

func TestNewAmerican_Validates(t *testing.T) {
	_, err := NewAmerican(-1, 1, Put)
	require.Error(t, err)

	c, err := NewAmerican(100, 1, Put)
	require.NoError(t, err)
	assert.Equal(t, American, c.Family())
}

func TestNewBermudan_RequiresNonEmptyExerciseTimes(t *testing.T) {
	_, err := NewBermudan(100, 1, Call, nil)
	require.Error(t, err)
}

func TestNewBermudan_RejectsBoundaryExerciseTimes(t *testing.T) {
	_, err := NewBermudan(100, 1, Call, []float64{0})
	require.Error(t, err)

	_, err = NewBermudan(100, 1, Call, []float64{1})
	require.Error(t, err)
}

func TestNewBermudan_DedupsAndSorts(t *testing.T) {
	c, err := NewBermudan(100, 1, Call, []float64{0.75, 0.5, 0.75})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.75}, c.ExerciseTimes())
}

func TestPayoff_CallAndPut(t *testing.T) {
	call, err := NewEuropean(100, 1, Call)
	require.NoError(t, err)
	assert.Equal(t, 10.0, call.Payoff(110))
	assert.Equal(t, 0.0, call.Payoff(90))

	put, err := NewEuropean(100, 1, Put)
	require.NoError(t, err)
	assert.Equal(t, 10.0, put.Payoff(90))
	assert.Equal(t, 0.0, put.Payoff(110))
}
