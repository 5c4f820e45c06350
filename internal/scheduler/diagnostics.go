package scheduler

import (
	"fmt"

	"github.com/fairway-league/golfer/backend/internal/domain"
)

type Metric struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// Diagnostics 最终分组的各项评价指标及总代价
type Diagnostics struct {
	Metrics []Metric `json:"metrics"`
	Cost    float64  `json:"cost"`
}

func newDiagnostics(w Weights, m Metrics, cost float64) Diagnostics {
	return Diagnostics{
		Metrics: []Metric{
			{"captEval", w.Capt, m.Capt},
			{"cseqEval", w.Cseq, m.Cseq},
			{"diffEval", w.Diff, m.Diff},
			{"dseqEval", w.Dseq, m.Dseq},
			{"partEval", w.Part, m.Part},
			{"pseqEval", w.Pseq, m.Pseq},
			{"selfEval", w.Self, m.Self},
			{"sseqEval", w.Sseq, m.Sseq},
			{"teamEval", w.Team, m.Team},
			{"tseqEval", w.Tseq, m.Tseq},
			{"xtraEval", w.Xtra, m.Xtra},
		},
		Cost: cost,
	}
}

// Comments 生成保存到数据库中的诊断注释：分隔行、11 项 "weight * value" 以及最终代价
func (d Diagnostics) Comments(eventID int64) []domain.EventComment {
	comments := make([]domain.EventComment, 0, len(d.Metrics)+2)
	comments = append(comments, domain.EventComment{
		EventID: eventID,
		Key:     "#########",
		Value:   "####################################################",
	})
	for _, m := range d.Metrics {
		comments = append(comments, domain.EventComment{
			EventID: eventID,
			Key:     m.Name + ":",
			Value:   fmt.Sprintf("%v * %v", m.Weight, m.Value),
		})
	}
	comments = append(comments, domain.EventComment{
		EventID: eventID,
		Key:     "bestEval:",
		Value:   fmt.Sprintf("%v", d.Cost),
	})
	return comments
}

// LogAttrs 以 slog 的 key/value 形式返回所有指标
func (d Diagnostics) LogAttrs() []any {
	attrs := make([]any, 0, 2*len(d.Metrics)+2)
	for _, m := range d.Metrics {
		attrs = append(attrs, m.Name, fmt.Sprintf("%v * %v", m.Weight, m.Value))
	}
	return append(attrs, "bestEval", d.Cost)
}
