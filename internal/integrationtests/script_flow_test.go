package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundloom/soundloom/internal/testutil"
)

func TestScriptCreatesTrackedComposition(t *testing.T) {
	result := testutil.RunScripts(t, nil, []string{`
const lead = Synth();
lead.note.seq([60, 64, 67], [1/4, 1/4, 1/2]);

const bass = FM();
bass.note.seq([36], [1]);
`})

	require.Len(t, result.Outcomes, 1)
	require.True(t, result.Outcomes[0].Succeeded)

	assert.Equal(t, 1, result.Engine.CallCount("Synth"))
	assert.Equal(t, 1, result.Engine.CallCount("FM"))

	snap := result.Store.Snapshot()
	assert.Len(t, snap.Instruments, 2)
	assert.Len(t, snap.Sequences, 2)
	assert.True(t, snap.Playing)
}

func TestScriptsShareOneComposition(t *testing.T) {
	result := testutil.RunScripts(t, nil, []string{
		"const lead = Synth();",
		"const bass = FM(); bass.note.seq([36, 38], [0.5, 0.5]);",
	})

	require.Len(t, result.Outcomes, 2)
	for _, outcome := range result.Outcomes {
		require.True(t, outcome.Succeeded)
	}

	snap := result.Store.Snapshot()
	assert.Len(t, snap.Instruments, 2)
	assert.Len(t, snap.Sequences, 1)
}

func TestNamespaceBindingWorks(t *testing.T) {
	result := testutil.RunScripts(t, nil, []string{
		"var s = Loom.Synth(); s.note.seq([60], [1]);",
	})

	require.Len(t, result.Outcomes, 1)
	require.True(t, result.Outcomes[0].Succeeded)
	assert.Equal(t, 1, result.Engine.CallCount("Synth"))
}

func TestManifestRestrictsSurface(t *testing.T) {
	manifests := map[string]string{"only-synth.hcl": `voice "Synth" {}`}

	result := testutil.RunScripts(t, manifests, []string{
		"var s = Synth();",
		"var f = FM();",
	})

	// FM exists on the engine but is not in the manifest, so the second
	// script fails with a reference error.
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Succeeded)
	require.False(t, result.Outcomes[1].Succeeded)
	assert.Contains(t, result.Outcomes[1].Failure.Message, "FM")
}
