package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	res := sampleResult()
	s := Summarize(res)

	var buf strings.Builder
	Render(&buf, "run-1", res, s)
	out := buf.String()

	assert.Contains(t, out, "Run ID:        run-1")
	assert.Contains(t, out, res.Symbol)
	assert.Contains(t, out, "Win rate:      50.0%")
	assert.Contains(t, out, "Net PnL:       160.00")
	assert.Contains(t, out, "Trading days:  ")
	assert.Contains(t, out, "Take Profit")
}
