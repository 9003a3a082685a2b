// File: internal/parser/command.go
// Package parser implements the textual Command/tuple/request grammar
// of spec §4.5/§8, the node CLI's external collaborator.
// Grounded on original_source/src/parser.rs: same grammar, same
// hand-rolled recursive-descent shape (no parser-combinator dependency
// exists anywhere in the retrieval pack for this grammar), same error
// strings (spec §8 asserts on them).
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parser

import (
	"time"

	"github.com/momentics/lindaring/internal/value"
)

// CommandKind tags which variant a parsed Command holds.
type CommandKind int

const (
	CmdOut CommandKind = iota
	CmdIn
	CmdRd
	CmdInp
	CmdRdp
	CmdHelp
	CmdExit
)

// Command is the parser's sum-type output: only the fields relevant to
// Kind are populated (Tuple for Out; Request for In/Rd/Inp/Rdp, plus
// Timeout for In/Rd).
type Command struct {
	Kind    CommandKind
	Tuple   value.Tuple[value.Value]
	Request value.Tuple[value.Request]
	Timeout time.Duration
}
