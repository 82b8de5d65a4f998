package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Epoch is the modification time given to ordinal 1; each following file is one Step later.
var (
	Epoch = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.Local)
	Step  = 24 * time.Hour
)

// FixTimestamps 按序号升序给 dir 中符合 naming 的文件设置严格递增的修改时间，
// 使按时间排序的查看器也能得到正确的幻灯片顺序。必须在所有渲染任务结束后调用。
// 返回按顺序处理过的文件名。
func FixTimestamps(dir string, naming Naming) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取输出目录失败: %w", err)
	}

	type numbered struct {
		name    string
		ordinal int
	}
	pattern := naming.Pattern()
	var files []numbered
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, numbered{name: e.Name(), ordinal: n})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ordinal != files[j].ordinal {
			return files[i].ordinal < files[j].ordinal
		}
		return files[i].name < files[j].name
	})

	names := make([]string, 0, len(files))
	for i, f := range files {
		ts := Epoch.Add(time.Duration(i) * Step)
		if err := os.Chtimes(filepath.Join(dir, f.name), ts, ts); err != nil {
			return names, fmt.Errorf("设置 %s 的时间戳失败: %w", f.name, err)
		}
		names = append(names, f.name)
	}
	return names, nil
}
