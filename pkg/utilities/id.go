package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// IDGenerator hands out snowflake ids from a single node. The node is created
// once; snowflake.Node is safe for concurrent use.
type IDGenerator struct {
	once   sync.Once
	nodeID int64
	node   *snowflake.Node
}

// NewIDGenerator returns a generator bound to nodeID.
func NewIDGenerator(nodeID int64) *IDGenerator {
	return &IDGenerator{nodeID: nodeID}
}

// NodeFromEnv reads the node id from SNOWFLAKE_NODE, defaulting to 1.
func NodeFromEnv() int64 {
	nodeEnv := os.Getenv("SNOWFLAKE_NODE")
	if nodeEnv == "" {
		return 1
	}
	nodeID, err := strconv.ParseInt(nodeEnv, 10, 64)
	if err != nil {
		return 1
	}
	return nodeID
}

// NewID generates a snowflake ID string. If the node cannot be initialized
// (node id out of range) it falls back to a KSUID string so a unique id is
// still returned.
func (g *IDGenerator) NewID() string {
	g.once.Do(func() {
		node, err := snowflake.NewNode(g.nodeID)
		if err == nil {
			g.node = node
		}
	})
	if g.node == nil {
		return NewKSUID()
	}
	return g.node.Generate().String()
}
