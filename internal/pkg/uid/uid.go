// Package uid generates identifiers: snowflake numbers for rows, UUIDs for
// correlation ids and random tokens for session ids.
package uid

import "github.com/bwmarrin/snowflake"

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates textual identifiers.
type StringID interface {
	Generate() string
}

// Snowflake generates 63 bit time ordered ids for a single node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator for node, which must be unique per running
// instance and fit in 10 bits.
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: n}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
