// Package toolkit turns validated requests into seqkit invocations and
// runs them: argv construction, supervised execution with outcome
// classification, and binary detection.
package toolkit

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
)

// CommandSpec is one fully built seqkit invocation. Argv excludes the
// binary itself; immutable after construction.
type CommandSpec struct {
	Op           catalog.Operation
	Argv         []string
	InputPath    string
	OutputPath   string // empty for stats, which reports via stdout
	WorkspaceDir string
}

// Build maps validated parameters to the exact argv for the operation.
// Pure: no filesystem access, no processes. Mutual-exclusion rules are
// already resolved by validation; Build re-checks the required-alternative
// invariants so a spec violation can never reach a subprocess.
func Build(spec catalog.Spec, vals catalog.Values, inputPath, workspaceDir string) (CommandSpec, error) {
	cs := CommandSpec{
		Op:           spec.Op,
		InputPath:    inputPath,
		WorkspaceDir: workspaceDir,
	}
	if spec.ProducesFile {
		cs.OutputPath = filepath.Join(workspaceDir, outputName(spec, vals, inputPath))
	}

	var argv []string
	var err error
	switch spec.Op {
	case catalog.OpStats:
		argv = buildStats(vals)
	case catalog.OpSubseq:
		argv, err = buildSubseq(vals)
	case catalog.OpGrep:
		argv, err = buildGrep(vals)
	case catalog.OpSeq:
		argv = buildSeq(vals)
	case catalog.OpSort:
		argv = buildSort(vals)
	case catalog.OpRmdup:
		argv = buildRmdup(vals)
	case catalog.OpSample:
		argv, err = buildSample(vals)
	case catalog.OpConvert:
		argv = buildConvert(vals)
	default:
		err = &catalog.ValidationError{
			Reason: catalog.ReasonInvalidCombination,
			Msg:    "unsupported operation " + spec.Op.String(),
		}
	}
	if err != nil {
		return CommandSpec{}, err
	}

	if spec.ProducesFile {
		argv = append(argv, "-o", cs.OutputPath)
	}
	argv = append(argv, inputPath)
	cs.Argv = argv
	return cs, nil
}

// outputName picks the workspace-local output file name. The extension
// mirrors the input file's, except for convert which fixes it by target
// format.
func outputName(spec catalog.Spec, vals catalog.Values, inputPath string) string {
	if spec.Op == catalog.OpConvert {
		if vals.Str("output_format") == "fasta" {
			return spec.OutputStem + ".fa"
		}
		return spec.OutputStem + ".fq"
	}
	ext := strings.TrimPrefix(filepath.Ext(inputPath), ".")
	if ext == "" {
		return spec.OutputStem
	}
	return spec.OutputStem + "." + ext
}

func buildStats(vals catalog.Values) []string {
	argv := []string{"stats"}
	if vals.Bool("all_stats") {
		argv = append(argv, "-a")
	}
	// -T for tabular output; the input path is appended by Build
	return append(argv, "-T")
}

func buildSubseq(vals catalog.Values) ([]string, error) {
	argv := []string{"subseq"}
	switch {
	case vals.Has("region"):
		argv = append(argv, "-r", vals.Str("region"))
	case vals.Has("bed_file"):
		argv = append(argv, "--bed", vals.Str("bed_file"))
	default:
		return nil, &catalog.ValidationError{
			Reason: catalog.ReasonInvalidCombination,
			Msg:    "Either 'region' or 'bed_file' must be specified",
		}
	}
	return argv, nil
}

func buildGrep(vals catalog.Values) ([]string, error) {
	argv := []string{"grep"}
	if vals.Bool("search_sequence") {
		argv = append(argv, "-s")
	}
	if vals.Bool("invert_match") {
		argv = append(argv, "-v")
	}
	if vals.Bool("ignore_case") {
		argv = append(argv, "-i")
	}
	switch {
	case vals.Has("pattern"):
		argv = append(argv, "-p", vals.Str("pattern"))
	case vals.Has("pattern_file"):
		argv = append(argv, "-f", vals.Str("pattern_file"))
	default:
		return nil, &catalog.ValidationError{
			Reason: catalog.ReasonInvalidCombination,
			Msg:    "Either 'pattern' or 'pattern_file' must be specified",
		}
	}
	return argv, nil
}

func buildSeq(vals catalog.Values) []string {
	argv := []string{"seq"}

	// reverse_complement is the union of the reverse and complement
	// flags, so requesting it alongside either one stays a single flag.
	if vals.Bool("reverse") || vals.Bool("reverse_complement") {
		argv = append(argv, "-r")
	}
	if vals.Bool("complement") || vals.Bool("reverse_complement") {
		argv = append(argv, "-p")
	}
	if vals.Bool("rna2dna") {
		argv = append(argv, "--rna2dna")
	}
	if vals.Bool("dna2rna") {
		argv = append(argv, "--dna2rna")
	}
	if vals.Bool("translate") {
		argv = append(argv, "-t")
	}

	if min := vals.Int("min_length"); min > 0 {
		argv = append(argv, "-m", strconv.Itoa(min))
	}
	if max := vals.Int("max_length"); max > 0 {
		argv = append(argv, "-M", strconv.Itoa(max))
	}
	return argv
}

func buildSort(vals catalog.Values) []string {
	argv := []string{"sort"}
	if vals.Bool("by_length") {
		argv = append(argv, "-l")
	} else {
		switch vals.Str("sort_by") {
		case "name":
			argv = append(argv, "-n")
		case "seq":
			argv = append(argv, "-s")
		case "length":
			argv = append(argv, "-l")
		}
		// "id" is seqkit's default ordering, no flag
	}
	if vals.Bool("reverse") {
		argv = append(argv, "-r")
	}
	return argv
}

func buildRmdup(vals catalog.Values) []string {
	argv := []string{"rmdup"}
	if vals.Bool("by_name") {
		argv = append(argv, "-n")
	} else {
		argv = append(argv, "-s")
	}
	if vals.Bool("ignore_case") {
		argv = append(argv, "-i")
	}
	return argv
}

func buildSample(vals catalog.Values) ([]string, error) {
	argv := []string{"sample"}
	switch {
	case vals.Has("number"):
		argv = append(argv, "-n", strconv.Itoa(vals.Int("number")))
	case vals.Has("proportion"):
		argv = append(argv, "-p", strconv.FormatFloat(vals.Float("proportion"), 'g', -1, 64))
	default:
		return nil, &catalog.ValidationError{
			Reason: catalog.ReasonInvalidCombination,
			Msg:    "Either 'number' or 'proportion' must be specified",
		}
	}
	if vals.Has("seed") {
		argv = append(argv, "-s", strconv.Itoa(vals.Int("seed")))
	}
	return argv, nil
}

func buildConvert(vals catalog.Values) []string {
	if vals.Str("output_format") == "fasta" {
		argv := []string{"fq2fa"}
		if width := vals.Int("line_width"); width > 0 {
			argv = append(argv, "-w", strconv.Itoa(width))
		}
		return argv
	}
	return []string{"fa2fq"}
}

// StatsArgv is the informational statistics invocation run against a
// freshly produced output file.
func StatsArgv(path string) []string {
	return []string{"stats", "-T", path}
}
