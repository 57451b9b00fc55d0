package core

import "github.com/rushteam/filmrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：电影元信息、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
//
// ID 是电影在图中的顶点 id。电影顶点 id 取负数编码（见 graph 包），
// 以便与正数的用户 id 共用同一个顶点空间而不冲突。
type Item struct {
	ID        int64
	Score     float64
	Title     string
	Genres    []string
	AvgRating float64
	NumRaters int
	Meta      map[string]any
	Labels    map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// HasGenre 判断电影是否属于给定题材。
func (it *Item) HasGenre(genre string) bool {
	for _, g := range it.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
