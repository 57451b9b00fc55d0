// Package filmrec 是一个基于二部评分图的电影推荐工具包。
//
// 设计要点：
// - Graph-first: 用户和电影同住一个顶点域（电影 id 取负），召回直接走邻接关系
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
package filmrec

import "github.com/rushteam/filmrec/pipeline"

// 轻量 facade：便于用户直接 import "filmrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
