// Package callback encodes and decodes the compact tokens carried by inline
// keyboard buttons.
//
// A token has the shape prefix + op + "__" + target + "__" + page. Parsing is
// anchored on the suffix: the page follows the LAST delimiter, the op precedes
// the FIRST one, and everything between them is the target. Targets may
// therefore contain underscores or the delimiter itself without ambiguity.
package callback

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const Delim = "__"

// MaxDataLen is the platform limit for callback payloads, in bytes.
const MaxDataLen = 64

// MaxTargetLen leaves room for the longest prefix, op and page number.
const MaxTargetLen = 40

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "rm"
	OpPick   Op = "pick"
	OpYes    Op = "yes"
	OpNo     Op = "no"
	OpGo     Op = "go"

	// Control buttons.
	OpNew    Op = "new"
	OpDone   Op = "done"
	OpSkip   Op = "skip"
	OpBack   Op = "back"
	OpCancel Op = "cancel"
	OpManual Op = "manual"
)

var (
	ErrEmptyTarget       = errors.New("callback: target is empty")
	ErrReservedDelimiter = errors.New("callback: target contains the reserved delimiter")
	ErrTargetTooLong     = errors.New("callback: target is too long")
	ErrInvalidTarget     = errors.New("callback: target is not valid UTF-8")
)

type Token struct {
	Prefix string
	Op     Op
	Target string
	Page   int
}

func Encode(prefix string, op Op, target string, page int) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(op) + len(target) + 2*len(Delim) + 3)
	b.WriteString(prefix)
	b.WriteString(string(op))
	b.WriteString(Delim)
	b.WriteString(target)
	b.WriteString(Delim)
	b.WriteString(strconv.Itoa(page))
	return b.String()
}

// Decode reports false when data was not produced for prefix or is malformed.
// It never panics on arbitrary input.
func Decode(data, prefix string) (Token, bool) {
	if prefix == "" || !strings.HasPrefix(data, prefix) {
		return Token{}, false
	}
	rest := data[len(prefix):]

	last := strings.LastIndex(rest, Delim)
	if last < 0 {
		return Token{}, false
	}
	page, err := strconv.Atoi(rest[last+len(Delim):])
	if err != nil {
		return Token{}, false
	}
	head := rest[:last]

	first := strings.Index(head, Delim)
	if first < 0 {
		return Token{}, false
	}
	op := head[:first]
	if op == "" {
		return Token{}, false
	}

	return Token{
		Prefix: prefix,
		Op:     Op(op),
		Target: head[first+len(Delim):],
		Page:   page,
	}, true
}

// ValidateTarget must be applied wherever user text becomes a target, such as
// a newly typed tag name.
func ValidateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return ErrEmptyTarget
	}
	if strings.Contains(target, Delim) {
		return ErrReservedDelimiter
	}
	if !utf8.ValidString(target) {
		return ErrInvalidTarget
	}
	// Measured in bytes, so non-Latin names fit fewer characters.
	if len(target) > MaxTargetLen {
		return ErrTargetTooLong
	}
	return nil
}
