package filter

import (
	"context"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/pkg/dsl"
)

// RuleFilter 是规则过滤器：用 CEL 表达式描述过滤条件，表达式为
// true 的物品被过滤掉。规则可以随配置下发，不用改代码。
//
// 示例：
//   - `item.num_raters < 5` → 过滤掉评分人数太少的电影
//   - `item.avg_rating < 6.0 && label.recall_fallback != null` → 随机补齐的低分片
type RuleFilter struct {
	// Expr 是 CEL 过滤表达式，为空时不过滤
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}

var _ Filter = (*RuleFilter)(nil)
