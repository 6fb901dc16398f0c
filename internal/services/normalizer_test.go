package services

import (
	"math"
	"testing"

	"github.com/edusight/edusight-backend/internal/types"
)

func TestNormalizeFeatures(t *testing.T) {
	m := types.StudentMetrics{
		AttendancePercent:    95,
		StudyHoursPerWeek:    50,
		PreviousMarks:        80,
		AssignmentsScore:     100,
		ParticipationScore:   0,
		ExtraCurricularScore: 25,
	}

	got := NormalizeFeatures(m)
	want := [FeatureCount]float64{0.95, 1.25, 0.8, 1.0, 0.0, 0.25}

	if len(got) != FeatureCount {
		t.Fatalf("feature count: want=%d got=%d", FeatureCount, len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("feature %d: want=%v got=%v", i, want[i], got[i])
		}
	}
	// studyHoursPerWeek=50 exceeds the assumed max of 40 and must pass
	// through unclamped.
	if got[1] <= 1 {
		t.Fatalf("expected ratio above 1 for over-max study hours, got %v", got[1])
	}
}

func TestBaselineRiskEstimate(t *testing.T) {
	cases := []struct {
		name string
		m    types.StudentMetrics
		want float64
	}{
		{
			name: "all_zero_is_max_risk",
			m:    types.StudentMetrics{},
			want: 1,
		},
		{
			name: "all_max_is_min_risk",
			m: types.StudentMetrics{
				AttendancePercent:    100,
				StudyHoursPerWeek:    40,
				PreviousMarks:        100,
				AssignmentsScore:     100,
				ParticipationScore:   100,
				ExtraCurricularScore: 100,
			},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BaselineRiskEstimate(tc.m)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("BaselineRiskEstimate: want=%v got=%v", tc.want, got)
			}
		})
	}

	// Over-max inputs push the mean above 1; the estimate floors at 0
	// rather than going negative.
	over := types.StudentMetrics{
		AttendancePercent:    100,
		StudyHoursPerWeek:    80,
		PreviousMarks:        100,
		AssignmentsScore:     100,
		ParticipationScore:   100,
		ExtraCurricularScore: 100,
	}
	if got := BaselineRiskEstimate(over); got != 0 {
		t.Fatalf("over-max baseline: want=0 got=%v", got)
	}
}
