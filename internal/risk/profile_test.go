package risk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/risk"
)

func TestProfilePresets(t *testing.T) {
	for _, p := range []risk.Profile{risk.Conservative(), risk.Moderate(), risk.Aggressive()} {
		require.NoError(t, p.Validate(), "preset %s must validate", p.Name)
	}

	m := risk.Moderate()
	assert.Equal(t, 4.0, m.MaxDailyLossPct)
	assert.Equal(t, 10.0, m.MaxOverallLossPct)
	assert.Equal(t, 1.5, m.DailyLossCutoffPct)
	assert.Equal(t, 2.0, m.HardCapPct)
	assert.Equal(t, 20.0, m.ProfitTargetPct)
}

func TestProfileByName(t *testing.T) {
	p, err := risk.ProfileByName("aggressive")
	require.NoError(t, err)
	assert.Equal(t, "aggressive", p.Name)

	// Empty name falls back to moderate.
	p, err = risk.ProfileByName("")
	require.NoError(t, err)
	assert.Equal(t, "moderate", p.Name)

	_, err = risk.ProfileByName("reckless")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownProfile))
}

func TestProfileValidateRejectsInconsistentLimits(t *testing.T) {
	p := risk.Moderate()
	p.DailyLossCutoffPct = p.MaxDailyLossPct + 1
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	p = risk.Moderate()
	p.Table = risk.Table{0, -0.5}
	assert.Error(t, p.Validate())

	p = risk.Moderate()
	p.Table = nil
	assert.Error(t, p.Validate())
}

func TestTableLookup(t *testing.T) {
	table := risk.Table{0, 0.3, 0.6, 0.9, 1.2, 1.5}

	assert.Equal(t, 0.0, table.Lookup(0))
	assert.Equal(t, 0.9, table.Lookup(3))
	assert.Equal(t, 0.9, table.Lookup(-3), "magnitude keys the table")
	assert.Equal(t, 0.0, table.Lookup(9), "out of range sizes to zero")
	assert.Equal(t, 0.0, table.Lookup(-9))
}
