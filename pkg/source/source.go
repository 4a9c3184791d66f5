// Package source loads Machina programs: it decodes the raw bytes, parses
// them and resolves labels, so callers receive a program ready to run.
package source

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"machina/pkg/builtin"
	"machina/pkg/lexer"
	"machina/pkg/parser"
	"machina/pkg/program"
	"machina/pkg/resolver"

	"github.com/charmbracelet/log"
)

const (
	UTF8     = "utf-8"
	UTF16    = "utf-16"
	ShiftJIS = "shift-jis"
)

type options struct {
	encoding string
	table    builtin.Table
}

type Option func(*options)

// WithEncoding selects the source encoding (default UTF-8, a BOM overrides it)
func WithEncoding(name string) Option {
	return func(o *options) { o.encoding = name }
}

// WithBuiltins validates and resolves against a custom operation table
func WithBuiltins(t builtin.Table) Option {
	return func(o *options) { o.table = t }
}

// Decode converts raw source bytes to UTF-8 text
func Decode(data []byte, name string) (string, error) {
	t, err := decoder(name)
	if err != nil {
		return "", err
	}

	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s source: %w", name, err)
	}

	return string(out), nil
}

func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(name) {
	case "", UTF8, "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case UTF16, "utf16":
		return unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case ShiftJIS, "sjis", "shift_jis":
		return japanese.ShiftJIS.NewDecoder(), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported source encoding %q: %w", name, err)
	}
	return enc.NewDecoder(), nil
}

// LoadString parses and resolves an in-memory program
func LoadString(name, src string, opts ...Option) (*program.Program, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var popts []parser.Option
	popts = append(popts, parser.WithFile(name))
	if o.table != nil {
		popts = append(popts, parser.WithBuiltins(o.table))
	}

	p := parser.NewParser(lexer.NewLexer(src), popts...)
	prog := p.Parse()
	if err := p.Errors().Err(); err != nil {
		return nil, err
	}

	if err := resolver.NewResolver(o.table).Resolve(prog); err != nil {
		return nil, err
	}

	log.Debug("Loaded program", "file", name, "functions", len(prog.Order))
	return prog, nil
}

// Load reads, decodes, parses and resolves a source file
func Load(path string, opts ...Option) (*program.Program, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	src, err := Decode(data, o.encoding)
	if err != nil {
		return nil, err
	}

	return LoadString(path, src, opts...)
}
