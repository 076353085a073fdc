package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/namegen/internal/generate"
)

const (
	formatList  = "list"
	formatLines = "lines"
	formatJSON  = "json"
)

func writeResult(w io.Writer, format string, res *generate.Result) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatList:
		_, err := fmt.Fprintln(w, pyList(res.Names))
		return err
	case formatLines:
		for _, n := range res.Names {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown output format %q (want list, lines or json)", format)
	}
}

// pyList renders names the way a Python list of strings prints.
func pyList(names []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pyRepr(n))
	}
	sb.WriteByte(']')
	return sb.String()
}

// pyRepr quotes s the way Python's repr quotes a str: single quotes unless
// s contains a single quote and no double quote, and non-printable runes
// as \xNN, \uNNNN or \UNNNNNNNN.
func pyRepr(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch r {
		case quote, '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			switch {
			case strconv.IsPrint(r):
				sb.WriteRune(r)
			case r < 0x100:
				_, _ = fmt.Fprintf(&sb, `\x%02x`, r)
			case r < 0x10000:
				_, _ = fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				_, _ = fmt.Fprintf(&sb, `\U%08x`, r)
			}
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}
