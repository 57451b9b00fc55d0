package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/filmrec/core"
)

func movie(id int64, title string, avg float64, genres ...string) *core.Item {
	it := core.NewItem(id)
	it.Title = title
	it.AvgRating = avg
	it.Genres = genres
	return it
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestGenreTopN(t *testing.T) {
	tests := []struct {
		name  string
		genre string
		n     int
		items []*core.Item
		want  []string
	}{
		{
			// 两部喜剧 + 一部高分非喜剧：喜剧优先，缺口用最高分补
			name:  "pad with highest rated",
			genre: "Comedy",
			items: []*core.Item{
				movie(-1, "A", 7.0, "Comedy"),
				movie(-2, "B", 9.0, "Drama"),
				movie(-3, "C", 6.0, "Comedy", "Drama"),
			},
			want: []string{"A", "C", "B"},
		},
		{
			name:  "enough matches",
			genre: "Drama",
			items: []*core.Item{
				movie(-1, "A", 7.0, "Drama"),
				movie(-2, "B", 9.0, "Drama"),
				movie(-3, "C", 6.0, "Comedy"),
				movie(-4, "D", 8.0, "Drama"),
			},
			want: []string{"B", "D", "A"},
		},
		{
			name:  "no genre degrades to topn",
			genre: "",
			items: []*core.Item{
				movie(-1, "A", 7.0, "Comedy"),
				movie(-2, "B", 9.0, "Drama"),
				movie(-3, "C", 6.0, "Comedy"),
				movie(-4, "D", 8.0, "Drama"),
			},
			want: []string{"B", "D", "A"},
		},
		{
			name:  "fewer candidates than n",
			genre: "Comedy",
			items: []*core.Item{
				movie(-1, "A", 7.0, "Comedy"),
				movie(-2, "B", 9.0, "Drama"),
			},
			want: []string{"A", "B"},
		},
		{
			name:  "unknown genre",
			genre: "Western",
			items: []*core.Item{
				movie(-1, "A", 7.0, "Comedy"),
				movie(-2, "B", 9.0, "Drama"),
				movie(-3, "C", 6.0, "Comedy"),
			},
			want: []string{"B", "A", "C"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &GenreTopN{Genre: tt.genre, N: tt.n}
			out, err := node.Process(context.Background(), &core.RecommendContext{}, tt.items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			got := titles(out)
			if len(got) != len(tt.want) {
				t.Fatalf("titles = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("titles = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGenreTopN_FromContext(t *testing.T) {
	node := &GenreTopN{}
	items := []*core.Item{
		movie(-1, "A", 7.0, "Comedy"),
		movie(-2, "B", 9.0, "Drama"),
		movie(-3, "C", 6.0, "Comedy"),
		movie(-4, "D", 5.0, "Comedy"),
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{Genre: "Comedy"}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := []string{"A", "C", "D"}
	got := titles(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles = %v, want %v", got, want)
		}
	}
	if lbl, ok := out[0].Labels["genre_match"]; !ok || lbl.Value != "Comedy" {
		t.Errorf("genre_match label = %v, want Comedy", out[0].Labels)
	}
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{movie(-1, "A", 1), movie(-2, "B", 2), movie(-3, "C", 3)}
	tests := []struct {
		n    int
		want int
	}{
		{n: 0, want: 3},
		{n: 2, want: 2},
		{n: 5, want: 3},
	}
	for _, tt := range tests {
		node := &TopNNode{N: tt.n}
		out, err := node.Process(context.Background(), nil, items)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(out) != tt.want {
			t.Errorf("N=%d: len(out) = %d, want %d", tt.n, len(out), tt.want)
		}
	}
}
