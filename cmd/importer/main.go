// postboard-import 命令行批量导入帖子
//
//	postboard-import --file posts.xlsx [--batch-size 1000] [--best-effort]
//
// 与HTTP接口共用同一个导入用例和配置（config.yaml + POSTBOARD_*环境变量），
// 导入完成后同样会使列表缓存失效并发布posts.imported事件。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
