package filter

import (
	"context"
	"strings"

	"github.com/rushteam/filmrec/core"
)

// SeedTitleFilter 是种子过滤器：推荐结果里不能出现用户自己报上来的
// 三部电影。召回阶段已经剔除过一次，这里在 pipeline 里再挡一道，
// 防止 fanout 等多路召回把种子重新带进来。
//
// ExtraTitles 可以附加运营配置的全局屏蔽片单。
type SeedTitleFilter struct {
	// ExtraTitles 是额外屏蔽的电影标题列表（可选）
	ExtraTitles []string
}

func (f *SeedTitleFilter) Name() string {
	return "filter.seed_title"
}

func (f *SeedTitleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if rctx != nil {
		for _, title := range rctx.LikedTitles {
			if strings.EqualFold(item.Title, title) {
				return true, nil
			}
		}
	}
	for _, title := range f.ExtraTitles {
		if strings.EqualFold(item.Title, title) {
			return true, nil
		}
	}

	return false, nil
}

var _ Filter = (*SeedTitleFilter)(nil)
