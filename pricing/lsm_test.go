package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/path"
)

func TestExerciseSteps_American(t *testing.T) {
	contract, err := option.NewAmerican(100, 1, option.Put)
	require.NoError(t, err)

	steps := 10
	dt := 1.0 / float64(steps)
	e := ExerciseSteps(contract, steps, dt)
	assert.Len(t, e, steps)
	for step := 1; step <= steps; step++ {
		assert.True(t, e[step])
	}
}

func TestExerciseSteps_BermudanSnapsAndDedups(t *testing.T) {
	contract, err := option.NewBermudan(100, 1, option.Call, []float64{0.5, 0.51, 0.75})
	require.NoError(t, err)

	steps := 10
	dt := 1.0 / float64(steps)
	e := ExerciseSteps(contract, steps, dt)
	// 0.5 -> step 5, 0.51 -> step 5 (rounds to nearest, collapses with 0.5), 0.75 -> step 7 or 8
	assert.True(t, e[5])
	assert.True(t, e[int(0.75/dt+0.5)])
	assert.Len(t, e, 2)
}

func TestGenerateRows_FillsOnlyAssignedRange(t *testing.T) {
	data := buildData(t, 0.2, 0.05, 0, 0, 0, 100, 0.05, true)
	contract, err := option.NewAmerican(100, 1, option.Put)
	require.NoError(t, err)

	m := NewPathMatrices(6, LSMSteps)
	gen := path.New(data, 1)
	m.GenerateRows(gen, contract, 2, 4)

	for i := 0; i < 6; i++ {
		row := m.Prices.RawRowView(i)
		if i >= 2 && i < 4 {
			assert.NotEqual(t, 0.0, row[LSMSteps], "assigned row should be populated")
		} else {
			assert.Equal(t, 0.0, row[LSMSteps], "unassigned row must stay untouched")
		}
	}
}

func TestRunBackwardInduction_NonNegativePrice(t *testing.T) {
	data := buildData(t, 0.2, 0.05, 0, 0, 0, 100, 0.05, true)
	contract, err := option.NewAmerican(100, 1, option.Put)
	require.NoError(t, err)

	steps := LSMSteps
	dt := contract.Expiry() / float64(steps)
	exercise := ExerciseSteps(contract, steps, dt)

	m := NewPathMatrices(500, steps)
	gen := path.New(data, 1)
	m.GenerateRows(gen, contract, 0, 500)

	price := RunBackwardInduction(m, contract, data.Curve(), exercise, nil)
	assert.GreaterOrEqual(t, price, 0.0)
}
