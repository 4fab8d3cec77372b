package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/sirupsen/logrus"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// InitSnowflake 初始化全局雪花节点, 多实例部署时每个实例使用不同的nodeID
func InitSnowflake(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// GenerateID 生成全局唯一ID, 未初始化时使用节点1
func GenerateID() int64 {
	nodeOnce.Do(func() {
		if node == nil {
			if err := InitSnowflake(1); err != nil {
				logrus.Fatalf("init snowflake failed: %v", err)
			}
		}
	})
	return node.Generate().Int64()
}
