package registry

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-proptest/exitcodes"
	"github.com/ethereum-optimism/infra/op-proptest/types"
)

func passingCase() types.Case {
	return types.CaseFunc(func(types.ProgressLevel, bool) types.Outcome {
		return types.OutcomePass
	})
}

func TestRegistryRegister(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)

	require.NoError(t, r.Register("lists", "reverse_involution", passingCase()))
	require.NoError(t, r.Register("lists", "append_length", passingCase()))
	require.NoError(t, r.Register("maps", "insert_lookup", passingCase()))

	require.Equal(t, 3, r.Len())

	cases := r.Cases()
	require.Len(t, cases, 3)
	assert.Equal(t, types.CaseMetadata{Suite: "lists", Name: "reverse_involution"}, cases[0].Metadata)
	assert.Equal(t, types.CaseMetadata{Suite: "lists", Name: "append_length"}, cases[1].Metadata)
	assert.Equal(t, types.CaseMetadata{Suite: "maps", Name: "insert_lookup"}, cases[2].Metadata)
}

func TestRegistryCapacity(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New(), Capacity: 3})
	require.NoError(t, err)
	require.Equal(t, 3, r.Capacity())

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Register("suite", fmt.Sprintf("case_%d", i), passingCase()))
	}

	err = r.Register("suite", "one_too_many", passingCase())
	require.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, 3, r.Len(), "failed registration must not grow the table")
}

func TestRegistryDefaults(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, r.Capacity())
	assert.Zero(t, r.Len())
}

func TestRegistryNegativeCapacity(t *testing.T) {
	_, err := NewRegistry(Config{Log: log.New(), Capacity: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "capacity")
}

func TestRegisterNilCase(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)

	err = r.Register("suite", "nil_case", nil)
	require.Error(t, err)
	assert.Zero(t, r.Len())
}

func TestRegisterDuplicatesAllowed(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)

	require.NoError(t, r.Register("suite", "same_name", passingCase()))
	require.NoError(t, r.Register("suite", "same_name", passingCase()))
	assert.Equal(t, 2, r.Len())
}

func TestCasesSnapshot(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)
	require.NoError(t, r.Register("suite", "original", passingCase()))

	snapshot := r.Cases()
	snapshot[0].Metadata.Name = "mutated"

	assert.Equal(t, "original", r.Cases()[0].Metadata.Name)
}

func TestRegisterFunc(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)

	require.NoError(t, r.RegisterFunc("suite", "fn", func(types.ProgressLevel, bool) types.Outcome {
		return types.OutcomeFail
	}))

	cases := r.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, types.OutcomeFail, cases[0].Case.Run(types.ProgressAll, false))
}

func TestMustRegisterOverflow(t *testing.T) {
	var out bytes.Buffer
	r, err := NewRegistry(Config{Log: log.New(), Capacity: 1, Out: &out})
	require.NoError(t, err)

	exitCode := -1
	r.exit = func(code int) { exitCode = code }

	r.MustRegister("suite", "first", passingCase())
	require.Equal(t, -1, exitCode, "registration within capacity must not exit")
	require.Empty(t, out.String())

	r.MustRegister("suite", "second", passingCase())
	assert.Equal(t, exitcodes.TestFailure, exitCode)
	assert.Equal(t, "Tried to register too many tests.", out.String())
	assert.Equal(t, 1, r.Len())
}
