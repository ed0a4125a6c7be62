package attribution

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/commission-cli/internal/model"
	"github.com/sells-group/commission-cli/internal/stage"
)

// Detections runs the stage detector over one company's message stream.
func Detections(messages []model.Message, pipe *stage.Pipeline) []model.StageDetection {
	var detections []model.StageDetection
	for _, m := range messages {
		for _, d := range pipe.Detect(m.Text) {
			detections = append(detections, model.StageDetection{
				Company:    m.Company,
				Stage:      d.Stage,
				AuthorID:   m.AuthorID,
				Timestamp:  m.Timestamp,
				Confidence: d.Confidence,
			})
		}
	}
	return detections
}

// AttributeAll computes one attribution record per company. Companies are
// independent, so the work fans out across an errgroup with the given
// concurrency limit; each company's computation touches no shared state.
// Results come back sorted by company name.
func AttributeAll(ctx context.Context, byCompany map[string][]model.Message, pipe *stage.Pipeline, roster *Roster, concurrency int) ([]model.AttributionRecord, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	records := make([]model.AttributionRecord, 0, len(names))

	for _, name := range names {
		name := name
		messages := byCompany[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			detections := Detections(messages, pipe)
			record := BuildRecord(name, Aggregate(detections, pipe, roster))

			zap.L().Debug("attribution: company complete",
				zap.String("company", name),
				zap.Int("messages", len(messages)),
				zap.Int("detections", len(detections)),
				zap.Int("participants", len(record.RawPercent)),
			)

			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Company < records[j].Company })
	return records, nil
}
