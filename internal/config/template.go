package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML schema of the config file. Kept separate from
// Settings so the rendered template stays in file terms (timeout as a
// duration string).
type fileConfig struct {
	SeqKitPath  string            `yaml:"seqkit_path"`
	TempDir     string            `yaml:"temp_dir"`
	Timeout     string            `yaml:"timeout"`
	MaxFileSize int64             `yaml:"max_file_size"`
	Log         fileLogConfig     `yaml:"log"`
	Journal     fileJournalConfig `yaml:"journal"`
	Trace       fileTraceConfig   `yaml:"trace"`
}

type fileLogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type fileJournalConfig struct {
	Path string `yaml:"path"`
}

type fileTraceConfig struct {
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

const templateHeader = `# bio-mcp-seqkit configuration.
# Every value may also be set via BIO_MCP_-prefixed environment variables
# (BIO_MCP_SEQKIT_PATH, BIO_MCP_LOG_LEVEL, ...); environment wins over file.
`

// RenderTemplate produces the default config file contents.
func RenderTemplate() ([]byte, error) {
	defaults := fileConfig{
		SeqKitPath:  DefaultSeqKitPath,
		TempDir:     "",
		Timeout:     "600s",
		MaxFileSize: DefaultMaxFileSize,
		Log: fileLogConfig{
			Level: DefaultLogLevel,
			File:  "",
		},
		Journal: fileJournalConfig{Path: ""},
		Trace: fileTraceConfig{
			Exporter: DefaultTraceExporter,
			Endpoint: DefaultTraceEndpoint,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString("\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(defaults); err != nil {
		return nil, fmt.Errorf("encoding config template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes the default config file to path, creating parent
// directories. Refuses to overwrite an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	content, err := RenderTemplate()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
