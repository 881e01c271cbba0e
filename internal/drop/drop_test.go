package drop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luck-curve/internal/luck"
)

func TestReferenceRates(t *testing.T) {
	base := ReferenceRates()
	require.NoError(t, base.Validate())
	assert.InDelta(t, ReferenceTotal, base.Total(), 1e-15)
	assert.Equal(t, []string{ItemNuke, ItemSuperHoming, ItemSuperShotgun}, base.Names())
}

func TestBaseRatesValidate(t *testing.T) {
	assert.ErrorIs(t, BaseRates{}.Validate(), ErrNoRates)
	assert.ErrorIs(t, BaseRates{"x": -0.1}.Validate(), ErrInvalidProbability)
	assert.ErrorIs(t, BaseRates{"x": 1.5}.Validate(), ErrInvalidProbability)
	assert.ErrorIs(t, BaseRates{"x": math.NaN()}.Validate(), ErrInvalidProbability)
	assert.NoError(t, BaseRates{"x": 0, "y": 1}.Validate())
}

func TestProjectTwoStageTargets(t *testing.T) {
	tests := []struct {
		level      int
		bonus      float64
		multiplier float64
		total      float64
	}{
		{0, 0, 1, 0.009},
		{30, 525, 6.25, 0.05625},
		{50, 925, 10.25, 0.09225},
	}

	for _, tt := range tests {
		bonus, err := luck.Compute(tt.level, luck.ShippedTwoStage())
		require.NoError(t, err)
		assert.InDelta(t, tt.bonus, bonus, 1e-9)

		p, err := Project(ReferenceRates(), bonus)
		require.NoError(t, err)
		assert.InDelta(t, tt.multiplier, p.Multiplier, 1e-12)
		assert.InDelta(t, tt.total, p.TotalRate, 1e-12)
		assert.InDelta(t, tt.total/3, p.Rates[ItemNuke], 1e-12)
		assert.False(t, p.Exceeded)
		assert.Empty(t, p.Overflow)
	}

	lv30, _ := Project(ReferenceRates(), 525)
	assert.Greater(t, lv30.TotalPercent(), 5.0, "Lv30 should clear the 5% target")
	lv50, _ := Project(ReferenceRates(), 925)
	assert.Less(t, lv50.TotalPercent(), 10.0, "Lv50 should stay under the 10% ceiling")
}

func TestProjectFlagsOverflow(t *testing.T) {
	// luck I x100 on the baseline model: +1000%
	p, err := Project(ReferenceRates(), 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0.099, p.TotalRate, 1e-12)
	assert.False(t, p.Exceeded)

	bonus, err := luck.Compute(25, luck.ShippedTwoStage())
	require.NoError(t, err)
	require.InDelta(t, 425, bonus, 1e-9)
	p, err = Project(BaseRates{"orb": 0.2, "gem": 0.01}, bonus)
	require.NoError(t, err)
	assert.True(t, p.Exceeded)
	assert.Equal(t, []string{"orb"}, p.Overflow)
	assert.Greater(t, p.Rates["orb"], 1.0, "rates stay unclamped")

	// each item within range but the combined rate is not
	p, err = Project(BaseRates{"a": 0.3, "b": 0.3}, 100)
	require.NoError(t, err)
	assert.Empty(t, p.Overflow)
	assert.True(t, p.Exceeded)
}

func TestProjectErrors(t *testing.T) {
	_, err := Project(ReferenceRates(), -5)
	assert.ErrorIs(t, err, luck.ErrInvalidBonus)
	_, err = Project(BaseRates{"x": 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

func TestExpectedValue(t *testing.T) {
	ev, err := ExpectedValue(0.05625, 100)
	require.NoError(t, err)
	assert.InDelta(t, 5.625, ev, 1e-12)

	ev, err = ExpectedValue(1.5, 10)
	require.NoError(t, err)
	assert.InDelta(t, 15, ev, 1e-12)

	_, err = ExpectedValue(-0.1, 10)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	_, err = ExpectedValue(0.1, -1)
	assert.ErrorIs(t, err, ErrInvalidTrials)
}

func TestAtLeastOne(t *testing.T) {
	got, err := AtLeastOne(0.01, 100)
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Pow(0.99, 100), got, 1e-12)
	assert.InDelta(t, 0.634, got, 1e-3)

	// tiny p over many trials stays accurate
	got, err = AtLeastOne(1e-4, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Exp(10000*math.Log1p(-1e-4)), got, 1e-12)
	assert.InDelta(t, 0.6321, got, 1e-4)

	got, err = AtLeastOne(1e-12, 1)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e-12, got, 1e-9)

	got, _ = AtLeastOne(0, 500)
	assert.Equal(t, 0.0, got)
	got, _ = AtLeastOne(1, 0)
	assert.Equal(t, 0.0, got)
	got, _ = AtLeastOne(1, 3)
	assert.Equal(t, 1.0, got)

	_, err = AtLeastOne(1.2, 3)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	_, err = AtLeastOne(0.5, -3)
	assert.ErrorIs(t, err, ErrInvalidTrials)
}

func TestTrialsForConfidence(t *testing.T) {
	n, err := TrialsForConfidence(0.01, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 69, n)

	above, _ := AtLeastOne(0.01, n)
	below, _ := AtLeastOne(0.01, n-1)
	assert.GreaterOrEqual(t, above, 0.5)
	assert.Less(t, below, 0.5)

	n, err = TrialsForConfidence(1, 0.99)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = TrialsForConfidence(0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	_, err = TrialsForConfidence(0.1, 1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

func TestOver(t *testing.T) {
	p, err := Project(ReferenceRates(), 525)
	require.NoError(t, err)

	stage := ReferenceStages()[3]
	require.Equal(t, 500, stage.Trials())

	o, err := Over(p, stage.Trials())
	require.NoError(t, err)
	assert.InDelta(t, 0.05625*500, o.ExpectedTotal, 1e-9)
	assert.InDelta(t, 0.01875*500, o.ExpectedItems[ItemNuke], 1e-9)
	assert.InDelta(t, 1-math.Pow(1-0.05625, 500), o.AtLeastOne, 1e-9)

	hot, err := Project(BaseRates{"a": 0.6}, 100)
	require.NoError(t, err)
	o, err = Over(hot, 3)
	require.NoError(t, err)
	assert.True(t, o.Exceeded)
	assert.Equal(t, 1.0, o.AtLeastOne)

	_, err = Over(p, -1)
	assert.ErrorIs(t, err, ErrInvalidTrials)
}
