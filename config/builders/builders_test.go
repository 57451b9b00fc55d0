package builders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/filmrec/config"
	"github.com/rushteam/filmrec/pipeline"
)

const pipelineYAML = `pipeline:
  name: movie_rec
  nodes:
    - type: filter
      config:
        filters:
          - type: seed_title
          - type: rule
            expr: "item.num_raters < 5"
    - type: rank.rating
    - type: rerank.genre_topn
      config:
        genre: Comedy
        n: 3
`

func TestBuildPipelineFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}

	pipe, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(pipe.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(pipe.Nodes))
	}
	wantKinds := []pipeline.Kind{pipeline.KindFilter, pipeline.KindRank, pipeline.KindReRank}
	for i, k := range wantKinds {
		if pipe.Nodes[i].Kind() != k {
			t.Errorf("Nodes[%d].Kind() = %s, want %s", i, pipe.Nodes[i].Kind(), k)
		}
	}
}

func TestGraphBackedTypesRejectConfigBuild(t *testing.T) {
	factory := config.DefaultFactory()
	for _, typ := range []string{"recall.corated", "recall.popular", "recall.random", "recall.fanout"} {
		if _, err := factory.Build(typ, nil); err == nil {
			t.Errorf("Build(%s) expected error, graph-backed sources need code wiring", typ)
		}
	}
}

func TestValidateUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.xgboost"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Error("ValidatePipelineConfig() expected error for unknown node type")
	}
}
