package metrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"movie-discovery-web/internal/backend"
	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/recommend"
)

type stubRecommender struct {
	resp *models.RecommendationResponse
	err  error
}

func (s stubRecommender) Recommend(context.Context, models.FilterCriteria) (*models.RecommendationResponse, error) {
	return s.resp, s.err
}

func TestObserverCountsTransitions(t *testing.T) {
	before := testutil.ToFloat64(StateTransitions.WithLabelValues("error_shown", "validation"))
	Observer.Transition(recommend.Transition{To: recommend.ErrorShown, Kind: recommend.ErrorKindValidation})
	after := testutil.ToFloat64(StateTransitions.WithLabelValues("error_shown", "validation"))
	if after-before != 1 {
		t.Errorf("transition counter moved by %v, want 1", after-before)
	}
}

func TestRecordOutcomeCountsStale(t *testing.T) {
	before := testutil.ToFloat64(StaleResponses)
	RecordOutcome(recommend.Outcome{Stale: true})
	RecordOutcome(recommend.Outcome{State: recommend.ResultsShown})
	if got := testutil.ToFloat64(StaleResponses) - before; got != 1 {
		t.Errorf("stale counter moved by %v, want 1", got)
	}
}

func sampleCount(t *testing.T, result string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := BackendDuration.WithLabelValues(result).(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestInstrumentRecommender(t *testing.T) {
	tests := []struct {
		name   string
		stub   stubRecommender
		result string
	}{
		{"success", stubRecommender{resp: &models.RecommendationResponse{Success: true}}, "success"},
		{"backend failure", stubRecommender{resp: &models.RecommendationResponse{Success: false}}, "failure"},
		{"transport", stubRecommender{err: fmt.Errorf("%w: refused", backend.ErrTransport)}, "transport_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleCount(t, tt.result)
			_, _ = InstrumentRecommender(tt.stub).Recommend(context.Background(), models.FilterCriteria{})
			if got := sampleCount(t, tt.result) - before; got != 1 {
				t.Errorf("%s observations moved by %d, want 1", tt.result, got)
			}
		})
	}
}
