package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Location identifies where an IR construct came from.
// A zero Location is the unknown location.
type Location struct {
	File string
	Line int
	Col  int

	// Name is used for named locations such as "callsite" or a CUE path.
	Name string
}

// UnknownLoc returns the unknown location.
func UnknownLoc() Location {
	return Location{}
}

// FileLineCol returns a file:line:col location.
func FileLineCol(file string, line, col int) Location {
	return Location{File: file, Line: line, Col: col}
}

// NameLoc returns a named location.
func NameLoc(name string) Location {
	return Location{Name: name}
}

// IsUnknown reports whether l carries no position information.
func (l Location) IsUnknown() bool {
	return l.File == "" && l.Name == ""
}

// String renders the location the way diagnostics print it.
func (l Location) String() string {
	switch {
	case l.File != "" && l.Line > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	case l.File != "":
		return l.File
	case l.Name != "":
		return l.Name
	default:
		return "loc(unknown)"
	}
}

// ParseLocation parses "file:line:col". Anything else becomes a named
// location; the empty string is the unknown location.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownLoc()
	}

	lastColon := strings.LastIndexByte(s, ':')
	if lastColon <= 0 {
		return NameLoc(s)
	}
	col, err := strconv.Atoi(s[lastColon+1:])
	if err != nil {
		return NameLoc(s)
	}
	rest := s[:lastColon]
	prevColon := strings.LastIndexByte(rest, ':')
	if prevColon <= 0 {
		return NameLoc(s)
	}
	line, err := strconv.Atoi(rest[prevColon+1:])
	if err != nil {
		return NameLoc(s)
	}
	return FileLineCol(rest[:prevColon], line, col)
}
