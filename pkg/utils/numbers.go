package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9-]")
	slugDashes  = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(
		" ", "-", "é", "e", "è", "e", "ê", "e", "à", "a", "â", "a",
		"ç", "c", "ô", "o", "î", "i", "ï", "i", "û", "u", "ù", "u",
	).Replace(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NumberGenerator issues human readable business numbers such as "DEP-1A2B3C4D5E".
// Numbers are time ordered and unique per node.
type NumberGenerator struct {
	node *snowflake.Node
}

// NewNumberGenerator creates a generator for the given node (0-1023).
// Every API replica writing to the same database needs its own node.
func NewNumberGenerator(node int64) (*NumberGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("number generator: %w", err)
	}
	return &NumberGenerator{node: n}, nil
}

// Next returns a new number with the given prefix.
func (g *NumberGenerator) Next(prefix string) string {
	return strings.ToUpper(prefix) + strings.ToUpper(g.node.Generate().Base36())
}
