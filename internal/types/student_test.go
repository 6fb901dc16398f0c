package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleMetrics() StudentMetrics {
	return StudentMetrics{
		StudentID:            "S-1001",
		Name:                 "Asha Rao",
		Age:                  16,
		Gender:               GenderFemale,
		AttendancePercent:    92,
		StudyHoursPerWeek:    12,
		PreviousMarks:        78,
		AssignmentsScore:     81,
		ParticipationScore:   64,
		ExtraCurricularScore: 55,
	}
}

func TestNewStudentHasEmptyHistory(t *testing.T) {
	s := NewStudent(uuid.New(), sampleMetrics())

	history, err := s.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history length: want=0 got=%d", len(history))
	}
	if s.RiskScore != nil {
		t.Fatalf("new student risk score: want=nil got=%v", *s.RiskScore)
	}
	if _, ok, err := s.LatestPrediction(); err != nil || ok {
		t.Fatalf("LatestPrediction on empty history: ok=%v err=%v", ok, err)
	}
}

func TestAppendPredictionPreservesOrderAndLatest(t *testing.T) {
	s := NewStudent(uuid.New(), sampleMetrics())

	p1 := Prediction{RiskScore: 0.4, Insight: "first", CreatedAt: time.Now().UTC()}
	p2 := Prediction{RiskScore: 0.7, Insight: "second", CreatedAt: time.Now().UTC().Add(time.Minute)}

	if err := s.AppendPrediction(p1); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if err := s.AppendPrediction(p2); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	history, err := s.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length: want=2 got=%d", len(history))
	}
	if history[0].Insight != "first" || history[1].Insight != "second" {
		t.Fatalf("history order changed: got=%q,%q", history[0].Insight, history[1].Insight)
	}

	latest, ok, err := s.LatestPrediction()
	if err != nil || !ok {
		t.Fatalf("LatestPrediction: ok=%v err=%v", ok, err)
	}
	if latest.RiskScore != p2.RiskScore {
		t.Fatalf("latest risk score: want=%v got=%v", p2.RiskScore, latest.RiskScore)
	}
	if s.RiskScore == nil || *s.RiskScore != p2.RiskScore {
		t.Fatalf("student risk score not moved to latest: got=%v", s.RiskScore)
	}
}

func TestSetMetricsLeavesLedgerAlone(t *testing.T) {
	s := NewStudent(uuid.New(), sampleMetrics())
	if err := s.AppendPrediction(Prediction{RiskScore: 0.55, Insight: "note", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	updated := sampleMetrics()
	updated.AttendancePercent = 40
	updated.Name = "Asha R."
	s.SetMetrics(updated)

	if s.AttendancePercent != 40 || s.Name != "Asha R." {
		t.Fatalf("metrics not replaced: attendance=%v name=%q", s.AttendancePercent, s.Name)
	}
	if s.RiskScore == nil || *s.RiskScore != 0.55 {
		t.Fatalf("risk score touched by metric edit: got=%v", s.RiskScore)
	}
	history, err := s.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history touched by metric edit: len=%d", len(history))
	}
}

func TestStudentInputResolve(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	intp := func(i int) *int { return &i }

	valid := StudentInput{
		StudentID:            str("S-2"),
		Name:                 str("Ben Okafor"),
		Age:                  intp(17),
		Gender:               str("Male"),
		AttendancePercent:    num(88),
		StudyHoursPerWeek:    num(9),
		PreviousMarks:        num(70),
		AssignmentsScore:     num(75),
		ParticipationScore:   num(60),
		ExtraCurricularScore: num(50),
	}
	if _, err := valid.Resolve(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*StudentInput)
	}{
		{name: "missing_attendance", mutate: func(in *StudentInput) { in.AttendancePercent = nil }},
		{name: "attendance_above_100", mutate: func(in *StudentInput) { in.AttendancePercent = num(101) }},
		{name: "negative_study_hours", mutate: func(in *StudentInput) { in.StudyHoursPerWeek = num(-1) }},
		{name: "zero_age", mutate: func(in *StudentInput) { in.Age = intp(0) }},
		{name: "bad_gender", mutate: func(in *StudentInput) { in.Gender = str("Unknown") }},
		{name: "blank_name", mutate: func(in *StudentInput) { in.Name = str("  ") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if _, err := in.Resolve(); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}
