// Package catalog defines the closed set of supported seqkit operations,
// their parameter schemas, and request validation against those schemas.
// The catalog is pure data plus pure functions; it never touches the
// filesystem or starts processes.
package catalog

import "strings"

// Operation identifies one supported operation. The set is closed:
// anything else is rejected at dispatch with an unknown-tool error.
type Operation int

const (
	OpStats Operation = iota
	OpSubseq
	OpGrep
	OpSeq
	OpSort
	OpRmdup
	OpSample
	OpConvert
)

func (o Operation) String() string {
	switch o {
	case OpStats:
		return "stats"
	case OpSubseq:
		return "subseq"
	case OpGrep:
		return "grep"
	case OpSeq:
		return "seq"
	case OpSort:
		return "sort"
	case OpRmdup:
		return "rmdup"
	case OpSample:
		return "sample"
	case OpConvert:
		return "convert"
	default:
		return "unknown"
	}
}

// ToolName returns the MCP tool name for the operation ("seqkit_stats").
func (o Operation) ToolName() string {
	return "seqkit_" + o.String()
}

// ParseOperation resolves a tool name ("seqkit_grep") or bare operation
// name ("grep") to its Operation. The second result is false for names
// outside the closed set.
func ParseOperation(name string) (Operation, bool) {
	switch strings.TrimPrefix(name, "seqkit_") {
	case "stats":
		return OpStats, true
	case "subseq":
		return OpSubseq, true
	case "grep":
		return OpGrep, true
	case "seq":
		return OpSeq, true
	case "sort":
		return OpSort, true
	case "rmdup":
		return OpRmdup, true
	case "sample":
		return OpSample, true
	case "convert":
		return OpConvert, true
	default:
		return 0, false
	}
}

// ParamKind is the value type of a parameter.
type ParamKind int

const (
	KindString ParamKind = iota
	KindBool
	KindInt
	KindFloat
	KindEnum
)

// Param describes a single parameter of an operation.
type Param struct {
	Name     string
	Kind     ParamKind
	Required bool

	// Default is substituted when the caller omits the parameter.
	// nil means no default: the parameter stays absent.
	Default any

	// Enum lists the allowed values for KindEnum parameters.
	Enum []string

	// Group names a mutual-exclusion group. Exactly one member of a group
	// must be supplied; when several are, the first in declaration order
	// wins and the others are dropped.
	Group string

	// PathLabel marks string parameters holding file paths and names them
	// in existence-check errors ("BED file not found: ..."). Empty for
	// non-path parameters.
	PathLabel string

	Description string
}

// Spec describes one operation: its tool schema and output behavior.
type Spec struct {
	Op          Operation
	Description string

	// Params in declaration order; order fixes group precedence.
	Params []Param

	// ProducesFile is false only for stats, which reports via stdout.
	ProducesFile bool

	// OutputStem is the workspace-local output file stem ("filtered" for
	// grep). The extension comes from the input file, except for convert.
	OutputStem string
}

// Param returns the named parameter descriptor.
func (s Spec) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

const inputFileDesc = "Path to FASTA/FASTQ file"

func inputFileParam() Param {
	return Param{
		Name:        "input_file",
		Kind:        KindString,
		Required:    true,
		PathLabel:   "Input file",
		Description: inputFileDesc,
	}
}

func outputFileParam() Param {
	return Param{
		Name:        "output_file",
		Kind:        KindString,
		PathLabel:   "", // destination, not checked for existence
		Description: "Persist the result file to this path (default: discard with the workspace)",
	}
}

var registry = []Spec{
	{
		Op:          OpStats,
		Description: "Get basic statistics of FASTA/FASTQ files",
		Params: []Param{
			inputFileParam(),
			{Name: "all_stats", Kind: KindBool, Default: false, Description: "Show all statistics including N50"},
		},
	},
	{
		Op:           OpSubseq,
		Description:  "Extract subsequences by region",
		ProducesFile: true,
		OutputStem:   "subseq",
		Params: []Param{
			inputFileParam(),
			{Name: "region", Kind: KindString, Group: "region", Description: "Region (e.g., '1:100-200' or 'chr1:1000-2000')"},
			{Name: "bed_file", Kind: KindString, Group: "region", PathLabel: "BED file", Description: "BED file with regions to extract"},
			outputFileParam(),
		},
	},
	{
		Op:           OpGrep,
		Description:  "Search sequences by pattern or ID",
		ProducesFile: true,
		OutputStem:   "filtered",
		Params: []Param{
			inputFileParam(),
			{Name: "pattern", Kind: KindString, Group: "pattern", Description: "Search pattern (regex supported)"},
			{Name: "pattern_file", Kind: KindString, Group: "pattern", PathLabel: "Pattern file", Description: "File with list of patterns/IDs"},
			{Name: "search_sequence", Kind: KindBool, Default: false, Description: "Search in sequence instead of header"},
			{Name: "invert_match", Kind: KindBool, Default: false, Description: "Invert match (exclude matching sequences)"},
			{Name: "ignore_case", Kind: KindBool, Default: false, Description: "Ignore case"},
			outputFileParam(),
		},
	},
	{
		Op:           OpSeq,
		Description:  "Transform sequences (reverse, complement, etc.)",
		ProducesFile: true,
		OutputStem:   "transformed",
		Params: []Param{
			inputFileParam(),
			{Name: "reverse", Kind: KindBool, Default: false, Description: "Reverse sequence"},
			{Name: "complement", Kind: KindBool, Default: false, Description: "Complement sequence"},
			{Name: "reverse_complement", Kind: KindBool, Default: false, Description: "Reverse complement sequence"},
			{Name: "rna2dna", Kind: KindBool, Default: false, Description: "Convert RNA to DNA"},
			{Name: "dna2rna", Kind: KindBool, Default: false, Description: "Convert DNA to RNA"},
			{Name: "translate", Kind: KindBool, Default: false, Description: "Translate to protein"},
			{Name: "min_length", Kind: KindInt, Default: 0, Description: "Minimum sequence length filter"},
			{Name: "max_length", Kind: KindInt, Default: 0, Description: "Maximum sequence length filter"},
			outputFileParam(),
		},
	},
	{
		Op:           OpSort,
		Description:  "Sort sequences by different criteria",
		ProducesFile: true,
		OutputStem:   "sorted",
		Params: []Param{
			inputFileParam(),
			{Name: "sort_by", Kind: KindEnum, Enum: []string{"id", "name", "seq", "length"}, Default: "id", Description: "Sort criterion"},
			{Name: "reverse", Kind: KindBool, Default: false, Description: "Reverse sort order"},
			{Name: "by_length", Kind: KindBool, Default: false, Description: "Sort by sequence length"},
			outputFileParam(),
		},
	},
	{
		Op:           OpRmdup,
		Description:  "Remove duplicate sequences",
		ProducesFile: true,
		OutputStem:   "rmdup",
		Params: []Param{
			inputFileParam(),
			{Name: "by_name", Kind: KindBool, Default: false, Description: "Remove duplicates by sequence name"},
			{Name: "by_seq", Kind: KindBool, Default: true, Description: "Remove duplicates by sequence"},
			{Name: "ignore_case", Kind: KindBool, Default: false, Description: "Ignore case when comparing"},
			outputFileParam(),
		},
	},
	{
		Op:           OpSample,
		Description:  "Sample sequences randomly",
		ProducesFile: true,
		OutputStem:   "sampled",
		Params: []Param{
			inputFileParam(),
			{Name: "number", Kind: KindInt, Group: "count", Description: "Number of sequences to sample"},
			{Name: "proportion", Kind: KindFloat, Group: "count", Description: "Proportion of sequences to sample (0-1)"},
			{Name: "seed", Kind: KindInt, Description: "Random seed for reproducible sampling"},
			outputFileParam(),
		},
	},
	{
		Op:           OpConvert,
		Description:  "Convert between FASTA and FASTQ formats",
		ProducesFile: true,
		OutputStem:   "converted",
		Params: []Param{
			{Name: "input_file", Kind: KindString, Required: true, PathLabel: "Input file", Description: "Path to input file"},
			{Name: "output_format", Kind: KindEnum, Required: true, Enum: []string{"fasta", "fastq"}, Description: "Output format"},
			{Name: "line_width", Kind: KindInt, Default: 0, Description: "Line width for FASTA output (0 for no wrapping)"},
			outputFileParam(),
		},
	},
}

var byOp = func() map[Operation]Spec {
	m := make(map[Operation]Spec, len(registry))
	for _, s := range registry {
		m[s.Op] = s
	}
	return m
}()

// Lookup returns the spec for an operation.
func Lookup(op Operation) (Spec, bool) {
	s, ok := byOp[op]
	return s, ok
}

// Specs returns all operation specs in registry order.
func Specs() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}
