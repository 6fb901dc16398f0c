package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edusight/edusight-backend/internal/apperr"
	"github.com/edusight/edusight-backend/internal/types"
)

func scoringStudent() *types.Student {
	return types.NewStudent(uuid.New(), types.StudentMetrics{
		StudentID:            "S-9",
		Name:                 "Lena Vogel",
		Age:                  15,
		Gender:               types.GenderFemale,
		AttendancePercent:    60,
		StudyHoursPerWeek:    5,
		PreviousMarks:        50,
		AssignmentsScore:     50,
		ParticipationScore:   50,
		ExtraCurricularScore: 50,
	})
}

func TestRiskScorerSuccess(t *testing.T) {
	client := &fakeOpenAI{
		jsonResults: []map[string]any{
			{"riskScore": 0.82, "riskFactors": "low attendance, few study hours"},
		},
	}
	scorer := NewRiskScorer(testLogger(t), client)

	got, err := scorer.Score(context.Background(), scoringStudent(), 0.5)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.RiskScore != 0.82 {
		t.Fatalf("risk score: want=0.82 got=%v", got.RiskScore)
	}
	if got.RiskFactors == "" {
		t.Fatalf("expected risk factors text")
	}
	if !strings.Contains(client.lastUser, "Student ID: S-9") {
		t.Fatalf("prompt missing student id: %q", client.lastUser)
	}
	if !strings.Contains(client.lastUser, "Model Risk Score: 0.5000") {
		t.Fatalf("prompt missing auxiliary model score: %q", client.lastUser)
	}
}

func TestRiskScorerRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name   string
		result map[string]any
		err    error
	}{
		{name: "call_failure", err: fmt.Errorf("dial tcp: connection refused")},
		{name: "score_above_one", result: map[string]any{"riskScore": 1.4, "riskFactors": "x"}},
		{name: "score_below_zero", result: map[string]any{"riskScore": -0.1, "riskFactors": "x"}},
		{name: "missing_score", result: map[string]any{"riskFactors": "x"}},
		{name: "missing_factors", result: map[string]any{"riskScore": 0.2}},
		{name: "score_wrong_type", result: map[string]any{"riskScore": "high", "riskFactors": "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeOpenAI{
				jsonResults: []map[string]any{tc.result},
				jsonErrs:    []error{tc.err},
			}
			scorer := NewRiskScorer(testLogger(t), client)

			_, err := scorer.Score(context.Background(), scoringStudent(), 0.5)
			if err == nil {
				t.Fatalf("expected failure")
			}
			if !apperr.IsExternalService(err) {
				t.Fatalf("error kind: want=external_service got=%q (%v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestInsightGeneratorTruncatesLongResponses(t *testing.T) {
	long := strings.Repeat("a", maxInsightLen+200)
	client := &fakeOpenAI{
		jsonResults: []map[string]any{{"insight": long}},
	}
	gen := NewInsightGenerator(testLogger(t), client)

	got, err := gen.Explain(context.Background(), scoringStudent(), 0.82, "low attendance")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(got) != maxInsightLen {
		t.Fatalf("insight length: want=%d got=%d", maxInsightLen, len(got))
	}
	if !strings.Contains(client.lastUser, "Calculated Risk Score: 0.8200") {
		t.Fatalf("prompt missing score: %q", client.lastUser)
	}
}

func TestInsightGeneratorTruncatesOnRuneBoundary(t *testing.T) {
	// 1 ASCII byte followed by 3-byte runes puts the cap mid-rune.
	long := "a" + strings.Repeat("好", 300)
	client := &fakeOpenAI{
		jsonResults: []map[string]any{{"insight": long}},
	}
	gen := NewInsightGenerator(testLogger(t), client)

	got, err := gen.Explain(context.Background(), scoringStudent(), 0.82, "low attendance")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated insight is invalid UTF-8 (len=%d, tail=%q)", len(got), got[len(got)-4:])
	}
	if len(got) > maxInsightLen {
		t.Fatalf("insight length: want<=%d got=%d", maxInsightLen, len(got))
	}
	// The cut walks back less than one full rune.
	if len(got) < maxInsightLen-utf8.UTFMax {
		t.Fatalf("insight cut too short: got=%d", len(got))
	}
}

func TestInsightGeneratorRejectsEmptyInsight(t *testing.T) {
	client := &fakeOpenAI{
		jsonResults: []map[string]any{{"insight": "   "}},
	}
	gen := NewInsightGenerator(testLogger(t), client)

	_, err := gen.Explain(context.Background(), scoringStudent(), 0.3, "factors")
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !apperr.IsExternalService(err) {
		t.Fatalf("error kind: want=external_service got=%q", apperr.KindOf(err))
	}
}
