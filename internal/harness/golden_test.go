package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGolden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		if !s.Golden {
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			require.True(t, result.Pass, "%v", result.Errors)
		})
	}
}
