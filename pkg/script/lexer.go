package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes gesture scripts.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Durations before plain numbers: 16ms, 1.5s
	{Name: "Duration", Pattern: `[0-9]+(?:\.[0-9]+)?(?:ms|s)\b`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},

	// Statements
	{Name: "KwViewport", Pattern: `(?i)\bviewport\b`},
	{Name: "KwCamera", Pattern: `(?i)\bcamera\b`},
	{Name: "KwPointer", Pattern: `(?i)\b(?:down|move|up|cancel)\b`},
	{Name: "KwArc", Pattern: `(?i)\barc\b`},
	{Name: "KwWheel", Pattern: `(?i)\bwheel\b`},
	{Name: "KwWait", Pattern: `(?i)\bwait\b`},
	{Name: "KwEnable", Pattern: `(?i)\benable\b`},
	{Name: "KwMode", Pattern: `(?i)\bmode\b`},

	// Clauses
	{Name: "KwAt", Pattern: `(?i)\b(?:at|to)\b`},
	{Name: "KwZoom", Pattern: `(?i)\bzoom\b`},
	{Name: "KwRotation", Pattern: `(?i)\brotation\b`},
	{Name: "KwCenter", Pattern: `(?i)\bcenter\b`},
	{Name: "KwRadius", Pattern: `(?i)\bradius\b`},
	{Name: "KwTurns", Pattern: `(?i)\bturns\b`},
	{Name: "KwFrom", Pattern: `(?i)\bfrom\b`},
	{Name: "KwSteps", Pattern: `(?i)\bsteps\b`},
	{Name: "KwDirection", Pattern: `(?i)\b(?:cw|ccw)\b`},
	{Name: "KwSwitch", Pattern: `(?i)\b(?:on|off)\b`},
	{Name: "KwRotationMode", Pattern: `(?i)\b(?:edge|gear)\b`},

	{Name: "At", Pattern: `@`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
})
