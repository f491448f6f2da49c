package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustSpec(t *testing.T, op Operation) Spec {
	t.Helper()
	spec, ok := Lookup(op)
	require.True(t, ok)
	return spec
}

func TestValidate_StatsDefaults(t *testing.T) {
	spec := mustSpec(t, OpStats)

	vals, err := Validate(spec, map[string]any{"input_file": "reads.fasta"})
	require.NoError(t, err)

	require.Equal(t, "reads.fasta", vals.Str("input_file"))
	require.True(t, vals.Has("all_stats"))
	require.False(t, vals.Bool("all_stats"))
}

func TestValidate_MissingRequired(t *testing.T) {
	spec := mustSpec(t, OpStats)

	_, err := Validate(spec, map[string]any{"all_stats": true})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, ReasonMissingParameter, verr.Reason)
	require.Equal(t, "'input_file' is required", verr.Msg)
}

func TestValidate_UnknownParameter(t *testing.T) {
	spec := mustSpec(t, OpStats)

	_, err := Validate(spec, map[string]any{
		"input_file": "reads.fasta",
		"verbose":    true,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown parameter 'verbose' for seqkit_stats")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, ReasonInvalidCombination, verr.Reason)
}

func TestValidate_TypeCoercion(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		args    map[string]any
		wantErr string
	}{
		{
			name:    "bool given string",
			op:      OpStats,
			args:    map[string]any{"input_file": "a.fa", "all_stats": "yes"},
			wantErr: "parameter 'all_stats' must be a boolean",
		},
		{
			name:    "int given fraction",
			op:      OpSample,
			args:    map[string]any{"input_file": "a.fa", "number": 1.5},
			wantErr: "parameter 'number' must be an integer",
		},
		{
			name:    "int given string",
			op:      OpSeq,
			args:    map[string]any{"input_file": "a.fa", "min_length": "100"},
			wantErr: "parameter 'min_length' must be an integer",
		},
		{
			name:    "string given number",
			op:      OpSubseq,
			args:    map[string]any{"input_file": "a.fa", "region": 12},
			wantErr: "parameter 'region' must be a string",
		},
		{
			name: "integral float accepted as int",
			op:   OpSample,
			args: map[string]any{"input_file": "a.fa", "number": float64(100)},
		},
		{
			name: "int accepted as float",
			op:   OpSample,
			args: map[string]any{"input_file": "a.fa", "proportion": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := mustSpec(t, tt.op)
			vals, err := Validate(spec, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, vals)
		})
	}
}

func TestValidate_SubseqGroup(t *testing.T) {
	spec := mustSpec(t, OpSubseq)

	t.Run("neither alternative", func(t *testing.T) {
		_, err := Validate(spec, map[string]any{"input_file": "a.fa"})
		require.Error(t, err)
		require.Equal(t, "Either 'region' or 'bed_file' must be specified", err.Error())

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Equal(t, ReasonInvalidCombination, verr.Reason)
	})

	t.Run("region only", func(t *testing.T) {
		vals, err := Validate(spec, map[string]any{"input_file": "a.fa", "region": "1:100-200"})
		require.NoError(t, err)
		require.Equal(t, "1:100-200", vals.Str("region"))
		require.False(t, vals.Has("bed_file"))
	})

	t.Run("both present, first-listed wins", func(t *testing.T) {
		vals, err := Validate(spec, map[string]any{
			"input_file": "a.fa",
			"region":     "1:100-200",
			"bed_file":   "regions.bed",
		})
		require.NoError(t, err)
		require.Equal(t, "1:100-200", vals.Str("region"))
		require.False(t, vals.Has("bed_file"), "loser must be dropped")
	})

	t.Run("empty region counts as omitted", func(t *testing.T) {
		vals, err := Validate(spec, map[string]any{
			"input_file": "a.fa",
			"region":     "",
			"bed_file":   "regions.bed",
		})
		require.NoError(t, err)
		require.False(t, vals.Has("region"))
		require.Equal(t, "regions.bed", vals.Str("bed_file"))
	})
}

func TestValidate_GrepGroup(t *testing.T) {
	spec := mustSpec(t, OpGrep)

	_, err := Validate(spec, map[string]any{"input_file": "a.fa"})
	require.Error(t, err)
	require.Equal(t, "Either 'pattern' or 'pattern_file' must be specified", err.Error())

	vals, err := Validate(spec, map[string]any{
		"input_file":   "a.fa",
		"pattern":      "chr1",
		"pattern_file": "ids.txt",
	})
	require.NoError(t, err)
	require.Equal(t, "chr1", vals.Str("pattern"))
	require.False(t, vals.Has("pattern_file"))
}

func TestValidate_SampleGroup(t *testing.T) {
	spec := mustSpec(t, OpSample)

	t.Run("neither alternative", func(t *testing.T) {
		_, err := Validate(spec, map[string]any{"input_file": "a.fa"})
		require.Error(t, err)
		require.Equal(t, "Either 'number' or 'proportion' must be specified", err.Error())
	})

	t.Run("proportion out of range", func(t *testing.T) {
		for _, bad := range []float64{0, -0.5, 1.01, 2} {
			_, err := Validate(spec, map[string]any{"input_file": "a.fa", "proportion": bad})
			require.Error(t, err, "proportion %v must be rejected", bad)
			require.Contains(t, err.Error(), "'proportion' must be within (0, 1]")
		}
	})

	t.Run("boundary proportion accepted", func(t *testing.T) {
		vals, err := Validate(spec, map[string]any{"input_file": "a.fa", "proportion": 1.0})
		require.NoError(t, err)
		require.Equal(t, 1.0, vals.Float("proportion"))
	})

	t.Run("seed optional", func(t *testing.T) {
		vals, err := Validate(spec, map[string]any{"input_file": "a.fa", "number": 100})
		require.NoError(t, err)
		require.False(t, vals.Has("seed"))

		vals, err = Validate(spec, map[string]any{"input_file": "a.fa", "number": 100, "seed": 42})
		require.NoError(t, err)
		require.Equal(t, 42, vals.Int("seed"))
	})
}

func TestValidate_SortEnum(t *testing.T) {
	spec := mustSpec(t, OpSort)

	vals, err := Validate(spec, map[string]any{"input_file": "a.fa"})
	require.NoError(t, err)
	require.Equal(t, "id", vals.Str("sort_by"), "default sort criterion")
	require.False(t, vals.Bool("by_length"))
	require.False(t, vals.Bool("reverse"))

	_, err = Validate(spec, map[string]any{"input_file": "a.fa", "sort_by": "size"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parameter 'sort_by' must be one of id, name, seq, length")
}

func TestValidate_RmdupDefaults(t *testing.T) {
	spec := mustSpec(t, OpRmdup)

	vals, err := Validate(spec, map[string]any{"input_file": "a.fa"})
	require.NoError(t, err)
	require.False(t, vals.Bool("by_name"))
	require.True(t, vals.Bool("by_seq"), "by_seq defaults to true")
	require.False(t, vals.Bool("ignore_case"))
}

func TestValidate_ConvertRequired(t *testing.T) {
	spec := mustSpec(t, OpConvert)

	_, err := Validate(spec, map[string]any{"input_file": "a.fq"})
	require.Error(t, err)
	require.Equal(t, "'output_format' is required", err.Error())

	_, err = Validate(spec, map[string]any{"input_file": "a.fq", "output_format": "sam"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parameter 'output_format' must be one of fasta, fastq")

	vals, err := Validate(spec, map[string]any{"input_file": "a.fq", "output_format": "fasta"})
	require.NoError(t, err)
	require.Equal(t, "fasta", vals.Str("output_format"))
	require.Equal(t, 0, vals.Int("line_width"), "line_width defaults to 0")
}

func TestValues_ZeroValuesWhenAbsent(t *testing.T) {
	vals := Values{}
	require.False(t, vals.Has("x"))
	require.Equal(t, "", vals.Str("x"))
	require.False(t, vals.Bool("x"))
	require.Equal(t, 0, vals.Int("x"))
	require.Equal(t, 0.0, vals.Float("x"))
}

// Property-based tests using rapid

func TestValidate_ProportionRangeProperty(t *testing.T) {
	spec := mustSpec(t, OpSample)

	rapid.Check(t, func(t *rapid.T) {
		prop := rapid.Float64Range(-2, 3).Draw(t, "proportion")
		_, err := Validate(spec, map[string]any{"input_file": "a.fa", "proportion": prop})

		if prop > 0 && prop <= 1 {
			if err != nil {
				t.Fatalf("proportion %v inside (0,1] rejected: %v", prop, err)
			}
		} else if err == nil {
			t.Fatalf("proportion %v outside (0,1] accepted", prop)
		}
	})
}

func TestValidate_GroupWinnerProperty(t *testing.T) {
	spec := mustSpec(t, OpGrep)

	rapid.Check(t, func(t *rapid.T) {
		args := map[string]any{"input_file": "a.fa"}
		hasPattern := rapid.Bool().Draw(t, "hasPattern")
		hasFile := rapid.Bool().Draw(t, "hasFile")
		if hasPattern {
			args["pattern"] = "chr1"
		}
		if hasFile {
			args["pattern_file"] = "ids.txt"
		}

		vals, err := Validate(spec, args)
		switch {
		case !hasPattern && !hasFile:
			if err == nil {
				t.Fatal("neither alternative accepted")
			}
		case hasPattern:
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !vals.Has("pattern") || vals.Has("pattern_file") {
				t.Fatalf("pattern must win, got %v", vals)
			}
		default:
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !vals.Has("pattern_file") {
				t.Fatalf("pattern_file must be kept, got %v", vals)
			}
		}
	})
}
