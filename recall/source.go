package recall

import (
	"context"

	"github.com/rushteam/filmrec/core"
)

// Source 表示一个可复用的召回源（共评相似/热门/随机采样/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Sampler 是支持定量采样的召回源：从目录中取 n 部不在 exclude 里的电影。
// 分层并集凑不够候选时，用它补齐缺口。
type Sampler interface {
	Sample(ctx context.Context, n int, exclude map[int64]struct{}) ([]*core.Item, error)
}
