package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WritePlan 将任务计划输出为 JSON，便于检查分页与序号。
func WritePlan(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建计划目录失败: %w", err)
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化任务计划失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
