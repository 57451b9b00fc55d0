package recall

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/graph"
)

// buildGraph 造一个小图：-1/-2/-3 是种子电影，-4 起是其他电影。
func buildGraph(t *testing.T, seeds []graph.MovieSeed) *graph.Store {
	t.Helper()
	g := graph.NewStore()
	if err := g.AddMoviesUsers(seeds); err != nil {
		t.Fatalf("AddMoviesUsers() error = %v", err)
	}
	return g
}

func likedContext() *core.RecommendContext {
	return &core.RecommendContext{LikedTitles: []string{"L1", "L2", "L3"}}
}

func TestCoRated_TieredUnion(t *testing.T) {
	// 用户 10 看全三部种子（3 分），另看 -4..-9；
	// 用户 11 看两部种子（2 分），另看 -20。
	seeds := []graph.MovieSeed{
		{ID: -1, Title: "L1", AvgRating: 7, NumRaters: 2, RaterIDs: []int64{10, 11}},
		{ID: -2, Title: "L2", AvgRating: 7, NumRaters: 2, RaterIDs: []int64{10, 11}},
		{ID: -3, Title: "L3", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -4, Title: "M4", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -5, Title: "M5", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -6, Title: "M6", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -7, Title: "M7", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -8, Title: "M8", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -9, Title: "M9", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -20, Title: "M20", AvgRating: 8, NumRaters: 1, RaterIDs: []int64{11}},
	}
	g := buildGraph(t, seeds)

	src := &CoRated{Graph: g, MinCandidates: 5}
	items, err := src.Recall(context.Background(), likedContext())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	got := make(map[int64]bool, len(items))
	for _, it := range items {
		got[it.ID] = true
	}

	// 3 分层已经给出 6 部候选（≥ 5），2 分层不应再并入
	if got[-20] {
		t.Error("tier-2 movie -20 included although tier-3 already met the minimum")
	}
	for id := int64(-4); id >= -9; id-- {
		if !got[id] {
			t.Errorf("tier-3 movie %d missing from candidates", id)
		}
	}
	// 种子电影永远被剔除
	for _, seed := range []int64{-1, -2, -3} {
		if got[seed] {
			t.Errorf("seed movie %d leaked into candidates", seed)
		}
	}
}

func TestCoRated_LowerTiersFillTheGap(t *testing.T) {
	// 3 分层只有 1 部额外电影，不足 3 时依次并入 2 分、1 分层。
	seeds := []graph.MovieSeed{
		{ID: -1, Title: "L1", AvgRating: 7, NumRaters: 3, RaterIDs: []int64{10, 11, 12}},
		{ID: -2, Title: "L2", AvgRating: 7, NumRaters: 2, RaterIDs: []int64{10, 11}},
		{ID: -3, Title: "L3", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -4, Title: "M4", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -5, Title: "M5", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{11}},
		{ID: -6, Title: "M6", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{12}},
	}
	g := buildGraph(t, seeds)

	src := &CoRated{Graph: g, MinCandidates: 3}
	items, err := src.Recall(context.Background(), likedContext())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	tierOf := make(map[int64]string, len(items))
	for _, it := range items {
		tierOf[it.ID] = it.Labels["affinity"].Value
	}
	if tierOf[-4] != "3" || tierOf[-5] != "2" || tierOf[-6] != "1" {
		t.Errorf("affinity labels = %v, want -4:3 -5:2 -6:1", tierOf)
	}
}

func TestCoRated_FallbackTopsUp(t *testing.T) {
	// 相似用户只能给出 1 部候选；缺口必须由采样源真正补进候选集。
	seeds := []graph.MovieSeed{
		{ID: -1, Title: "L1", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -2, Title: "L2", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -3, Title: "L3", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -4, Title: "M4", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{10}},
		{ID: -5, Title: "M5", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{11}},
		{ID: -6, Title: "M6", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{11}},
		{ID: -7, Title: "M7", AvgRating: 6, NumRaters: 1, RaterIDs: []int64{11}},
	}
	g := buildGraph(t, seeds)

	src := &CoRated{
		Graph:         g,
		MinCandidates: 4,
		Fallback:      &Random{Graph: g, Rand: rand.New(rand.NewSource(1))},
	}
	items, err := src.Recall(context.Background(), likedContext())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// 目录里可选电影恰好 4 部（-4..-7），候选集必须凑满
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	sampled := 0
	for _, it := range items {
		for _, seed := range []int64{-1, -2, -3} {
			if it.ID == seed {
				t.Errorf("seed movie %d leaked via fallback", seed)
			}
		}
		if _, ok := it.Labels["recall_fallback"]; ok {
			sampled++
		}
	}
	if sampled != 3 {
		t.Errorf("sampled candidates = %d, want 3", sampled)
	}
}

func TestCoRated_Preconditions(t *testing.T) {
	g := buildGraph(t, []graph.MovieSeed{
		{ID: -1, Title: "L1", AvgRating: 7, NumRaters: 1, RaterIDs: []int64{10}},
	})
	src := &CoRated{Graph: g}

	tests := []struct {
		name     string
		titles   []string
		wantCode string
	}{
		{name: "two titles", titles: []string{"L1", "L2"}, wantCode: core.ErrorCodeInvalidInput},
		{name: "four titles", titles: []string{"a", "b", "c", "d"}, wantCode: core.ErrorCodeInvalidInput},
		{name: "unknown title", titles: []string{"L1", "nope", "L1"}, wantCode: core.ErrorCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Recall(context.Background(), &core.RecommendContext{LikedTitles: tt.titles})
			domainErr := core.GetDomainError(err)
			if domainErr == nil || domainErr.Code != tt.wantCode {
				t.Errorf("Recall() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}
