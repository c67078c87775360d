package script

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a script from a reader.
func Parse(r io.Reader) (*File, error) {
	f, err := parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a script held in a string.
func ParseString(input string) (*File, error) {
	f, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses the script at filename.
func ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}
