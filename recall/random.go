package recall

import (
	"context"
	"math/rand"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pipeline"
	"github.com/rushteam/filmrec/pkg/utils"
)

// Random 是均匀随机采样召回源：从目录中无放回地取 Count 部电影。
// 数据集在加载时已经清洗过（电影平均分 ≥ 5.0、用户评分 ≥ 3.0），
// 所以这里的采样空间天然只含达标电影。
//
// 作为 Sampler 被 CoRated 用来补齐候选缺口；也可作为独立的
// Source / Node 提供冷启动兜底。
type Random struct {
	Graph core.RatingGraph

	// Count 作为独立召回源时的采样数量，默认 50
	Count int

	// Rand 可注入的随机源（测试用）；为空时使用包级默认源
	Rand *rand.Rand
}

func (r *Random) Name() string        { return "recall.random" }
func (r *Random) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Random) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Random) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	count := r.Count
	if count <= 0 {
		count = 50
	}
	return r.Sample(ctx, count, nil)
}

// Sample 实现 Sampler 接口：无放回地取 n 部不在 exclude 里的电影。
// 可选数量不足 n 时有多少给多少，不报错。
func (r *Random) Sample(ctx context.Context, n int, exclude map[int64]struct{}) ([]*core.Item, error) {
	if r.Graph == nil || n <= 0 {
		return nil, nil
	}

	movieIDs, err := r.Graph.GetAllMovies(ctx)
	if err != nil {
		return nil, err
	}
	pool := make([]int64, 0, len(movieIDs))
	for _, id := range movieIDs {
		if _, skip := exclude[id]; skip {
			continue
		}
		pool = append(pool, id)
	}

	shuffle := rand.Shuffle
	if r.Rand != nil {
		shuffle = r.Rand.Shuffle
	}
	shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > n {
		pool = pool[:n]
	}

	out := make([]*core.Item, 0, len(pool))
	for _, movieID := range pool {
		it, err := r.Graph.GetMovie(ctx, movieID)
		if err != nil {
			continue
		}
		it.PutLabel("recall_source", utils.Label{Value: "random", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Random)(nil)
var _ Sampler = (*Random)(nil)
var _ pipeline.Node = (*Random)(nil)
