// Package dictionary loads token dictionaries for the Dictionary operator.
// Two formats are accepted: AFL/honggfuzz text dictionaries and JSON.
package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

var (
	// ErrInvalidJSON is returned for malformed JSON dictionaries
	ErrInvalidJSON = errors.New("invalid JSON dictionary")

	// ErrInvalidLine is returned for a text line that is not a quoted token
	ErrInvalidLine = errors.New("invalid dictionary line")
)

// Load reads a dictionary file. Files with a .json extension are parsed as
// JSON, everything else as a text dictionary.
func Load(path string) (mutator.Words, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseText(data)
}

// ParseText parses an AFL-style dictionary:
//
//	# comment
//	"GET"
//	header_len="Content-Length: \x00"
func ParseText(data []byte) (mutator.Words, error) {
	words := mutator.Words{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		token, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(token) == 0 {
			continue
		}
		words = append(words, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dictionary: %w", err)
	}

	return words, nil
}

// parseLine extracts the quoted value of name="value" or "value"
func parseLine(line string) ([]byte, error) {
	start := strings.IndexByte(line, '"')
	if start < 0 || !strings.HasSuffix(line, `"`) || start == len(line)-1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}

	if prefix := strings.TrimSpace(line[:start]); prefix != "" {
		if !strings.HasSuffix(prefix, "=") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
		}
	}

	value, err := decodeToken(line[start+1 : len(line)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLine, line, err)
	}
	return value, nil
}

// decodeToken resolves the \\, \" and \xNN escapes of a quoted value. Every
// other byte is copied as is, so raw binary tokens survive unchanged.
func decodeToken(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			return nil, fmt.Errorf("unescaped quote at byte %d", i)
		case '\\':
		default:
			out = append(out, s[i])
			continue
		}

		if i+1 >= len(s) {
			return nil, errors.New("trailing backslash")
		}
		i++
		switch s[i] {
		case '\\', '"':
			out = append(out, s[i])
		case 'x':
			if i+2 >= len(s) {
				return nil, errors.New("truncated \\x escape")
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("bad \\x escape %q", s[i-1:i+3])
			}
			out = append(out, byte(v))
			i += 2
		default:
			return nil, fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return out, nil
}

// ParseJSON parses either a top-level array of strings or an object with a
// "tokens" array of strings.
func ParseJSON(data []byte) (mutator.Words, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	list := gjson.ParseBytes(data)
	if !list.IsArray() {
		list = list.Get("tokens")
		if !list.IsArray() {
			return nil, fmt.Errorf("%w: expected an array or a \"tokens\" array", ErrInvalidJSON)
		}
	}

	words := mutator.Words{}
	var err error
	idx := 0
	list.ForEach(func(_, value gjson.Result) bool {
		defer func() { idx++ }()
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: entry %d is %s, not a string", ErrInvalidJSON, idx, value.Type)
			return false
		}
		if s := value.String(); s != "" {
			words = append(words, []byte(s))
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return words, nil
}
