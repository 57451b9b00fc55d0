package filter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/filmrec/core"
)

// BlockedFilter 是用户拉黑过滤器：过滤掉用户标记"不感兴趣"的电影。
// 拉黑列表存在 Store 里，key 为 {KeyPrefix}:{UserID}，值是 JSON
// 编码的电影顶点 id 列表。
type BlockedFilter struct {
	// Store 用于读取用户拉黑列表
	Store core.Store

	// KeyPrefix 是 Store 中的 key 前缀，默认 "user:block"
	KeyPrefix string
}

func (f *BlockedFilter) Name() string {
	return "filter.blocked"
}

func (f *BlockedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}
	if f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:block"
	}
	key := keyPrefix + ":" + strconv.FormatInt(rctx.UserID, 10)

	data, err := f.Store.Get(ctx, key)
	if err != nil {
		// 没有拉黑记录时放行
		return false, nil
	}

	var blockedIDs []int64
	if err := json.Unmarshal(data, &blockedIDs); err != nil {
		return false, nil
	}
	for _, id := range blockedIDs {
		if item.ID == id {
			return true, nil
		}
	}

	return false, nil
}

var _ Filter = (*BlockedFilter)(nil)
