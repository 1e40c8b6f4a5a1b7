// sexp - s-expression codec CLI tool
//
// Usage:
//
//	sexp fmt [--pretty] [--indent=STR] [file]   Reformat s-expressions
//	sexp to-json [file]                         Convert s-expressions to JSON
//	sexp from-json [--pretty] [file]            Convert JSON to s-expressions
//	sexp stream [file]                          Decode a value stream with offsets
//	sexp version                                Print version info
//
// If no file is given, reads from stdin. Gzip-compressed input is
// detected and decompressed transparently.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/cantle/sexp/sexp"
)

const version = "0.2.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	pretty := false
	indent := "  "
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--pretty" || arg == "-pretty":
			pretty = true
		case strings.HasPrefix(arg, "--indent="):
			indent = strings.TrimPrefix(arg, "--indent=")
			pretty = true
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}
	input = maybeGunzip(input)

	switch cmd {
	case "fmt":
		cmdFmt(input, pretty, indent)
	case "to-json":
		cmdToJSON(input)
	case "from-json":
		cmdFromJSON(input, pretty, indent)
	case "stream":
		cmdStream(input)
	case "version", "-v", "--version":
		fmt.Printf("sexp %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `sexp - s-expression codec CLI tool

Usage:
  sexp fmt [--pretty] [--indent=STR] [file]   Reformat s-expressions
  sexp to-json [file]                         Convert s-expressions to JSON
  sexp from-json [--pretty] [file]            Convert JSON to s-expressions
  sexp stream [file]                          Decode a value stream with offsets
  sexp version                                Print version info

Options:
  --pretty        One value per line, indented
  --indent=STR    Indent string for --pretty (default two spaces)

If no file is given, reads from stdin. Gzip input is detected by its
magic bytes and decompressed.

Examples:
  echo '((name . "ada") (tags lisp math))' | sexp fmt --pretty
  echo '((a . 1) (b . 2))' | sexp to-json
  # Output: {"a":1,"b":2}
  echo '{"a":1,"b":[2,3]}' | sexp from-json
  # Output: (("a" . 1) ("b" 2 3))
`)
}

// maybeGunzip wraps r in a gzip reader when the input starts with the
// gzip magic bytes.
func maybeGunzip(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			fatal("gzip: %v", err)
		}
		return zr
	}
	return br
}

func formatter(pretty bool, indent string) sexp.Formatter {
	if pretty {
		return sexp.NewPrettyFormatterIndent(indent)
	}
	return sexp.CompactFormatter{}
}

// cmdFmt reformats each top-level value.
func cmdFmt(r io.Reader, pretty bool, indent string) {
	s := sexp.NewDecoder(r).Stream()
	for {
		more, err := s.More()
		if err != nil {
			fatal("parse: %v", err)
		}
		if !more {
			break
		}
		v, err := s.NextValue()
		if err != nil {
			fatal("parse: %v", err)
		}
		e := sexp.NewEncoderWithFormatter(os.Stdout, formatter(pretty, indent))
		if err := e.EncodeSexp(v); err != nil {
			fatal("encode: %v", err)
		}
		fmt.Println()
	}
}

// cmdStream decodes a value stream, printing each value with the byte
// offset where decoding can resume.
func cmdStream(r io.Reader) {
	s := sexp.NewDecoder(r).Stream()
	n := 0
	for {
		more, err := s.More()
		if err != nil {
			fatal("parse: %v", err)
		}
		if !more {
			break
		}
		v, err := s.NextValue()
		if err != nil {
			fatal("parse: %v", err)
		}
		n++
		fmt.Printf("%6d  %s\n", s.ByteOffset(), v)
	}
	fmt.Fprintf(os.Stderr, "--- %d values decoded ---\n", n)
}

// cmdToJSON converts one s-expression value to JSON.
func cmdToJSON(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := sexp.Parse(data)
	if err != nil {
		fatal("parse: %v", err)
	}
	out, err := json.Marshal(sexpToJSON(v))
	if err != nil {
		fatal("convert to JSON: %v", err)
	}
	fmt.Println(string(out))
}

// sexpToJSON maps a tree to JSON-encodable Go values. Alist-shaped
// lists become objects; improper tails are appended as a final array
// element.
func sexpToJSON(v sexp.Sexp) any {
	switch v.Kind() {
	case sexp.KindNil:
		return nil
	case sexp.KindBoolean:
		b, _ := v.AsBool()
		return b
	case sexp.KindNumber:
		n, _ := v.AsNumber()
		if u, ok := n.AsUint64(); ok {
			return u
		}
		if i, ok := n.AsInt64(); ok {
			return i
		}
		f, _ := n.AsFloat64()
		return f
	case sexp.KindAtom:
		a, _ := v.AsAtom()
		return a.Text()
	case sexp.KindList:
		elems, _ := v.AsList()
		if obj, ok := alistToObject(elems); ok {
			return obj
		}
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = sexpToJSON(elem)
		}
		return out
	case sexp.KindImproperList:
		elems, tail, _ := v.AsImproperList()
		out := make([]any, 0, len(elems)+1)
		for _, elem := range elems {
			out = append(out, sexpToJSON(elem))
		}
		return append(out, sexpToJSON(tail))
	}
	return nil
}

func alistToObject(elems []sexp.Sexp) (map[string]any, bool) {
	if len(elems) == 0 {
		return nil, false
	}
	obj := make(map[string]any, len(elems))
	for _, elem := range elems {
		key, value, ok := elem.Entry()
		if !ok {
			return nil, false
		}
		obj[key.Text()] = sexpToJSON(value)
	}
	return obj, true
}

// cmdFromJSON converts a JSON document to one s-expression value.
func cmdFromJSON(r io.Reader, pretty bool, indent string) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		fatal("parse JSON: %v", err)
	}
	v, err := jsonToSexp(doc)
	if err != nil {
		fatal("convert: %v", err)
	}
	e := sexp.NewEncoderWithFormatter(os.Stdout, formatter(pretty, indent))
	if err := e.EncodeSexp(v); err != nil {
		fatal("encode: %v", err)
	}
	fmt.Println()
}

func jsonToSexp(doc any) (sexp.Sexp, error) {
	switch doc := doc.(type) {
	case nil:
		return sexp.Nil(), nil
	case bool:
		return sexp.Bool(doc), nil
	case string:
		return sexp.Str(doc), nil
	case json.Number:
		if i, err := doc.Int64(); err == nil {
			return sexp.Int(i), nil
		}
		f, err := doc.Float64()
		if err != nil {
			return sexp.Sexp{}, fmt.Errorf("number %s: %w", doc, err)
		}
		return sexp.Float(f), nil
	case []any:
		elems := make([]sexp.Sexp, len(doc))
		for i, item := range doc {
			v, err := jsonToSexp(item)
			if err != nil {
				return sexp.Sexp{}, err
			}
			elems[i] = v
		}
		return sexp.List(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]sexp.Sexp, len(keys))
		for i, k := range keys {
			v, err := jsonToSexp(doc[k])
			if err != nil {
				return sexp.Sexp{}, err
			}
			entries[i] = sexp.Pair(sexp.Str(k), v)
		}
		return sexp.List(entries...), nil
	default:
		return sexp.Sexp{}, fmt.Errorf("unsupported JSON value %T", doc)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "sexp: "+format+"\n", args...)
	os.Exit(1)
}
