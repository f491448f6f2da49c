package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
)

// narrative holds everything needed to render one successful operation.
type narrative struct {
	op         catalog.Operation
	vals       catalog.Values
	inputPath  string
	outputPath string
	stdout     string // primary stdout; stats reports through it
	stats      string // secondary statistics excerpt, "" when unavailable
	outputSize int64  // convert only
}

// format renders the success text for one completed operation. Every
// file-producing operation ends with a statistics section so the
// response stays useful after the workspace is released.
func format(n narrative) string {
	switch n.op {
	case catalog.OpStats:
		return "Sequence Statistics:\n\n" + strings.TrimSpace(n.stdout)

	case catalog.OpSubseq:
		source := "BED file regions"
		if n.vals.Has("region") {
			source = n.vals.Str("region")
		}
		return fmt.Sprintf("Subsequence extraction completed!\n\nOutput file: %s\nRegion: %s",
			n.outputPath, source) +
			statsSection("Output statistics:", n.stats)

	case catalog.OpGrep:
		pattern := "from file"
		if n.vals.Has("pattern") {
			pattern = n.vals.Str("pattern")
		}
		return fmt.Sprintf("Sequence filtering completed!\n\nOutput file: %s\nPattern: %s\nSearch in sequence: %t",
			n.outputPath, pattern, n.vals.Bool("search_sequence")) +
			statsSection("Filtered sequences statistics:", n.stats)

	case catalog.OpSeq:
		applied := "filtering only"
		if items := transformations(n.vals); len(items) > 0 {
			applied = strings.Join(items, ", ")
		}
		return fmt.Sprintf("Sequence transformation completed!\n\nOutput file: %s\nTransformations: %s",
			n.outputPath, applied) +
			statsSection("Output statistics:", n.stats)

	case catalog.OpSort:
		criterion := n.vals.Str("sort_by")
		if n.vals.Bool("by_length") {
			criterion = "length"
		}
		return fmt.Sprintf("Sequence sorting completed!\n\nOutput file: %s\nSort criterion: %s\nReverse order: %t",
			n.outputPath, criterion, n.vals.Bool("reverse")) +
			statsSection("Output statistics:", n.stats)

	case catalog.OpRmdup:
		by := "sequence"
		if n.vals.Bool("by_name") {
			by = "name"
		}
		return fmt.Sprintf("Duplicate removal completed!\n\nOutput file: %s\nDuplicates removed by: %s",
			n.outputPath, by) +
			statsSection("Output statistics:", n.stats)

	case catalog.OpSample:
		var size string
		if n.vals.Has("number") {
			size = strconv.Itoa(n.vals.Int("number"))
		} else {
			size = fmt.Sprintf("%.6g%%", n.vals.Float("proportion")*100)
		}
		seed := "random"
		if n.vals.Has("seed") {
			seed = strconv.Itoa(n.vals.Int("seed"))
		}
		return fmt.Sprintf("Sequence sampling completed!\n\nOutput file: %s\nSample size: %s\nSeed: %s",
			n.outputPath, size, seed) +
			statsSection("Output statistics:", n.stats)

	default: // OpConvert
		outFormat := "FASTA"
		if n.vals.Str("output_format") == "fastq" {
			outFormat = "FASTQ"
		}
		return fmt.Sprintf("Format conversion completed!\n\nInput: %s\nOutput: %s\nOutput format: %s\nOutput size: %s bytes",
			n.inputPath, n.outputPath, outFormat, commaSeparated(n.outputSize)) +
			statsSection("Output statistics:", n.stats)
	}
}

func statsSection(heading, stats string) string {
	if stats == "" {
		stats = "(statistics unavailable)"
	}
	return "\n\n" + heading + "\n" + stats
}

// transformations lists the applied seq modifications in a fixed order.
func transformations(vals catalog.Values) []string {
	var items []string
	if vals.Bool("reverse") {
		items = append(items, "reverse")
	}
	if vals.Bool("complement") {
		items = append(items, "complement")
	}
	if vals.Bool("reverse_complement") {
		items = append(items, "reverse complement")
	}
	if vals.Bool("rna2dna") {
		items = append(items, "RNA to DNA")
	}
	if vals.Bool("dna2rna") {
		items = append(items, "DNA to RNA")
	}
	if vals.Bool("translate") {
		items = append(items, "translate to protein")
	}
	return items
}

// commaSeparated renders n with thousands separators: 1234567 -> "1,234,567".
func commaSeparated(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
