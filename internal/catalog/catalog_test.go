package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		name     string
		expected Operation
		ok       bool
	}{
		{"stats", OpStats, true},
		{"seqkit_stats", OpStats, true},
		{"subseq", OpSubseq, true},
		{"seqkit_grep", OpGrep, true},
		{"seq", OpSeq, true},
		{"seqkit_sort", OpSort, true},
		{"rmdup", OpRmdup, true},
		{"seqkit_sample", OpSample, true},
		{"convert", OpConvert, true},
		{"seqkit_translate", 0, false},
		{"", 0, false},
		{"blast", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := ParseOperation(tt.name)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.expected, op)
			}
		})
	}
}

func TestOperation_ToolName(t *testing.T) {
	require.Equal(t, "seqkit_stats", OpStats.ToolName())
	require.Equal(t, "seqkit_convert", OpConvert.ToolName())
}

func TestSpecs_Registry(t *testing.T) {
	specs := Specs()
	require.Len(t, specs, 8)

	for _, s := range specs {
		t.Run(s.Op.String(), func(t *testing.T) {
			require.NotEmpty(t, s.Description)

			// Every operation requires input_file.
			p, ok := s.Param("input_file")
			require.True(t, ok)
			require.True(t, p.Required)
			require.Equal(t, KindString, p.Kind)

			if s.Op == OpStats {
				require.False(t, s.ProducesFile)
				require.Empty(t, s.OutputStem)
				_, hasOut := s.Param("output_file")
				require.False(t, hasOut, "stats writes no file")
			} else {
				require.True(t, s.ProducesFile)
				require.NotEmpty(t, s.OutputStem)
				_, hasOut := s.Param("output_file")
				require.True(t, hasOut)
			}
		})
	}
}

func TestSpecs_GroupMembers(t *testing.T) {
	groups := map[Operation][]string{
		OpSubseq: {"region", "bed_file"},
		OpGrep:   {"pattern", "pattern_file"},
		OpSample: {"number", "proportion"},
	}

	for op, members := range groups {
		spec, ok := Lookup(op)
		require.True(t, ok)

		var found []string
		for _, p := range spec.Params {
			if p.Group != "" {
				found = append(found, p.Name)
			}
		}
		require.Equal(t, members, found, "group members in declaration order for %s", op)
	}
}

func TestLookup_AllOperations(t *testing.T) {
	for _, op := range []Operation{OpStats, OpSubseq, OpGrep, OpSeq, OpSort, OpRmdup, OpSample, OpConvert} {
		spec, ok := Lookup(op)
		require.True(t, ok)
		require.Equal(t, op, spec.Op)
	}
}
