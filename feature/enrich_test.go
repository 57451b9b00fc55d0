package feature

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/filmrec/core"
	"github.com/rushteam/filmrec/feast"
)

// fakeFeast 按 movie_id 返回预置特征
type fakeFeast struct {
	values map[int64]map[string]interface{}
	err    error
}

func (f *fakeFeast) GetOnlineFeatures(_ context.Context, req *feast.GetOnlineFeaturesRequest) (*feast.GetOnlineFeaturesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([]feast.FeatureVector, 0, len(req.EntityRows))
	for _, row := range req.EntityRows {
		id, _ := row["movie_id"].(int64)
		vectors = append(vectors, feast.FeatureVector{
			Values:    f.values[id],
			EntityRow: row,
		})
	}
	return &feast.GetOnlineFeaturesResponse{FeatureVectors: vectors}, nil
}

func (f *fakeFeast) Close() error { return nil }

func TestEnrichNode(t *testing.T) {
	node := &EnrichNode{
		Client: &fakeFeast{values: map[int64]map[string]interface{}{
			-1: {"movie_stats:box_office": 1.2e8},
		}},
		Features: []string{"movie_stats:box_office"},
	}

	items := []*core.Item{core.NewItem(-1), core.NewItem(-2)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	if got := out[0].Meta["movie_stats:box_office"]; got != 1.2e8 {
		t.Errorf("enriched meta = %v, want 1.2e8", got)
	}
	if lbl, ok := out[0].Labels["feature_source"]; !ok || lbl.Value != "feast" {
		t.Errorf("feature_source label = %v, want feast", out[0].Labels)
	}
	// 特征库没有该电影时不写 Meta
	if _, ok := out[1].Meta["movie_stats:box_office"]; ok {
		t.Error("item without features should not be enriched")
	}
}

func TestEnrichNode_FeastDown(t *testing.T) {
	node := &EnrichNode{
		Client:   &fakeFeast{err: errors.New("connection refused")},
		Features: []string{"movie_stats:box_office"},
	}
	items := []*core.Item{core.NewItem(-1)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v, feast outage must not break the pipeline", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
}

func TestEnrichNode_NoClient(t *testing.T) {
	node := &EnrichNode{}
	items := []*core.Item{core.NewItem(-1)}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil || len(out) != 1 {
		t.Fatalf("Process() = (%v, %v), want passthrough", out, err)
	}
}
