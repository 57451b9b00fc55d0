package eval

import (
	"context"
	"testing"

	"github.com/rushteam/filmrec/dataset"
)

func TestEvaluate(t *testing.T) {
	movies := []dataset.MovieRecord{
		{ID: -1, Title: "M1", Genres: []string{"Drama"}, AvgRating: 9.0, VoteCount: 10},
		{ID: -2, Title: "M2", Genres: []string{"Drama"}, AvgRating: 8.0, VoteCount: 10},
		{ID: -3, Title: "M3", Genres: []string{"Drama"}, AvgRating: 7.0, VoteCount: 10},
		{ID: -4, Title: "M4", Genres: []string{"Drama"}, AvgRating: 6.0, VoteCount: 10},
		{ID: -5, Title: "M5", Genres: []string{"Drama"}, AvgRating: 5.5, VoteCount: 10},
		{ID: -6, Title: "M6", Genres: []string{"Drama"}, AvgRating: 5.2, VoteCount: 10},
	}
	training := []dataset.RatingRecord{
		{UserID: 1, MovieID: -1, Rating: 4.0},
		{UserID: 1, MovieID: -2, Rating: 4.0},
		{UserID: 1, MovieID: -3, Rating: 4.0},
		{UserID: 1, MovieID: -4, Rating: 4.0},
		{UserID: 1, MovieID: -6, Rating: 4.0},
		{UserID: 2, MovieID: -1, Rating: 4.0},
		{UserID: 2, MovieID: -2, Rating: 4.0},
		{UserID: 2, MovieID: -5, Rating: 4.0},
	}
	// 用户 100 看过 6 部，其中 5 部热门（> 3，入选评估）；
	// 用户 200 只看过 2 部（跳过）
	holdout := []dataset.RatingRecord{
		{UserID: 100, MovieID: -1, Rating: 4.0},
		{UserID: 100, MovieID: -2, Rating: 4.0},
		{UserID: 100, MovieID: -3, Rating: 4.0},
		{UserID: 100, MovieID: -4, Rating: 4.0},
		{UserID: 100, MovieID: -5, Rating: 4.0},
		{UserID: 100, MovieID: -6, Rating: 4.0},
		{UserID: 200, MovieID: -1, Rating: 4.0},
		{UserID: 200, MovieID: -2, Rating: 4.0},
	}

	results, err := Evaluate(context.Background(), movies, training, holdout,
		Options{PopularSize: 5, PopularMinRaters: 1})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].UserID != 100 {
		t.Errorf("UserID = %d, want 100", results[0].UserID)
	}
	// 查询输入 M1/M2/M3，推荐 {M4, M5, M6}；用户测试集记录 6 部，
	// 剔除 3 部输入后全部命中
	if results[0].Matched != 1.0 {
		t.Errorf("Matched = %v, want 1.0", results[0].Matched)
	}
}

func TestPercentMatched(t *testing.T) {
	recommended := map[string]struct{}{"B": {}, "C": {}}
	tests := []struct {
		name      string
		connected []string
		want      float64
	}{
		{name: "half", connected: []string{"s1", "s2", "s3", "A", "B", "C", "D"}, want: 0.5},
		{name: "none", connected: []string{"s1", "s2", "s3", "A"}, want: 0},
		{name: "too short", connected: []string{"A", "B"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentMatched(tt.connected, recommended); got != tt.want {
				t.Errorf("percentMatched() = %v, want %v", got, tt.want)
			}
		})
	}
}
