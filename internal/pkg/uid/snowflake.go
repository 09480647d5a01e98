package uid

import (
	"fmt"
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit time ordered ids.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node number is derived from
// SNOWFLAKE_NODE_ID when set, otherwise from the hostname.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := nodeNumber()
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("uid: snowflake node %d: %w", nodeID, err)
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new id.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() (int64, error) {
	maxNode := int64(-1 ^ (-1 << snowflake.NodeBits))

	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		var id int64
		if _, err := fmt.Sscan(v, &id); err != nil || id < 0 || id > maxNode {
			return 0, fmt.Errorf("uid: invalid SNOWFLAKE_NODE_ID %q", v)
		}
		return id, nil
	}

	host, err := os.Hostname()
	if err != nil {
		return 0, fmt.Errorf("uid: hostname: %w", err)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	return int64(h.Sum32()) % (maxNode + 1), nil
}
