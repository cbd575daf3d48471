package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/stanza/internal/asset"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestConformanceScenarios(t *testing.T) {
	for _, name := range []string{
		"exquisite_corpse",
		"delegate_transfer",
		"priced_mint",
		"rejections",
	} {
		t.Run(name, func(t *testing.T) {
			RunWithGolden(t, loadTestScenario(t, name))
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	s := loadTestScenario(t, "exquisite_corpse")

	first, err := Run(s)
	require.NoError(t, err)
	require.Empty(t, first.Failures)

	second, err := Run(s)
	require.NoError(t, err)
	require.Empty(t, second.Failures)

	a, err := asset.MarshalCanonical(snapshot(first))
	require.NoError(t, err)
	b, err := asset.MarshalCanonical(snapshot(second))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunReportsExpectationMismatch(t *testing.T) {
	s := &Scenario{
		Name: "mismatch",
		Steps: []Step{
			{Op: "mint", As: "alice", Count: 1, Expect: &Expect{IDs: []int64{7}}},
			{Op: "author", As: "bob", Verse: 1, Text: "not mine"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 2)
	assert.Contains(t, result.Failures[0], "expected ids [7]")
	assert.Contains(t, result.Failures[1], "NOT_OWNER")
}

func TestRunReportsAssertionFailure(t *testing.T) {
	s := &Scenario{
		Name: "bad_assertion",
		Steps: []Step{
			{Op: "mint", As: "alice", Count: 1},
		},
		Assertions: []Assertion{
			{Type: "verse_owner", Verse: 1, Owner: "bob"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "verse_owner")
}

func TestRunRejectsMissingPolicyFile(t *testing.T) {
	s := &Scenario{
		Name:   "no_policy",
		Policy: "does-not-exist.cue",
		Steps:  []Step{{Op: "mint", As: "alice", Count: 1}},
	}

	_, err := Run(s)
	assert.Error(t, err)
}
