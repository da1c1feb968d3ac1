package cliendpoint

import (
	"strconv"
	"strings"

	"github.com/huegli/attic-sub012/internal/atticerr"
)

// Tokens walks whitespace-separated input, grounded on gopher2600's
// commandline.Tokens Get()/Peek()/Remainder() shape but trimmed to what
// the CLI grammar actually needs.
type Tokens struct {
	input  string
	tokens []string
	curr   int
}

func NewTokens(input string) *Tokens {
	return &Tokens{input: input, tokens: strings.Fields(input)}
}

func (tk *Tokens) Get() (string, bool) {
	if tk.curr >= len(tk.tokens) {
		return "", false
	}
	tk.curr++
	return tk.tokens[tk.curr-1], true
}

func (tk *Tokens) Remaining() int { return len(tk.tokens) - tk.curr }

func (tk *Tokens) Remainder() string { return strings.Join(tk.tokens[tk.curr:], " ") }

// parseRequest splits a request line into its verb and argument tokens.
func parseRequest(line string) (verb string, args *Tokens, err error) {
	line = strings.TrimPrefix(line, "CMD:")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, atticerr.Errorf(atticerr.KindParseGrammar, "empty command")
	}
	return strings.ToLower(fields[0]), NewTokens(strings.Join(fields[1:], " ")), nil
}

// parseAddress accepts a "$NNNN" hex literal or a bare decimal number.
func parseAddress(s string) (uint16, error) {
	v, err := parseHexOrDec(s)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFF {
		return 0, atticerr.Errorf(atticerr.KindInvalidAddress, "address %s out of 16-bit range", s)
	}
	return uint16(v), nil
}

func parseByte(s string) (byte, error) {
	v, err := parseHexOrDec(s)
	if err != nil {
		return 0, err
	}
	if v > 0xFF {
		return 0, atticerr.Errorf(atticerr.KindParseArgument, "byte %s out of range", s)
	}
	return byte(v), nil
}

func parseHexOrDec(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(s, "$")
	base := 16
	if trimmed == s {
		base = 10
	}
	v, err := strconv.ParseUint(trimmed, base, 32)
	if err != nil {
		return 0, atticerr.Errorf(atticerr.KindParseArgument, "cannot parse %q as a number", s)
	}
	return v, nil
}

// parseByteList accepts comma- or space-separated hex/decimal byte
// values, e.g. "A9,00,60" or "A9 00 60".
func parseByteList(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := parseByte(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func formatAddress(addr uint16) string { return "$" + strconv.FormatUint(uint64(addr), 16) }

func formatByte(b byte) string {
	s := strconv.FormatUint(uint64(b), 16)
	if len(s) == 1 {
		s = "0" + s
	}
	return "$" + strings.ToUpper(s)
}

func formatByteList(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = strings.TrimPrefix(formatByte(b), "$")
	}
	return strings.Join(parts, ",")
}
