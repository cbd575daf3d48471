package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/testutil"
)

// snapshot is the canonical projection of a scenario run. Event ids
// are random per run and excluded, so the snapshot is byte-stable.
func snapshot(result *Result) asset.Obj {
	return asset.Obj{
		"scenario": asset.Str(result.Scenario),
		"trace":    testutil.Trace(result.Events),
	}
}

// RunWithGolden executes a scenario, fails the test on any step or
// assertion failure, and compares the canonical trace against
// testdata/golden/{name}.golden. Regenerate goldens with -update.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("running scenario %s: %v", scenario.Name, err)
	}
	for _, fail := range result.Failures {
		t.Error(fail)
	}
	if t.Failed() {
		return result
	}

	data, err := asset.MarshalCanonical(snapshot(result))
	if err != nil {
		t.Fatalf("canonical trace: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, scenario.Name, data)
	return result
}
