package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusight/edusight-backend/internal/logger"
	"github.com/edusight/edusight-backend/internal/types"
)

func testLogger(t interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeOpenAI scripts GenerateJSON/GenerateText responses and records the
// prompts it was called with.
type fakeOpenAI struct {
	jsonResults []map[string]any
	jsonErrs    []error
	jsonCalls   int
	textResult  string
	textErr     error
	textCalls   int

	lastSystem string
	lastUser   string
}

func (f *fakeOpenAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.lastSystem = system
	f.lastUser = user
	i := f.jsonCalls
	f.jsonCalls++
	if i < len(f.jsonErrs) && f.jsonErrs[i] != nil {
		return nil, f.jsonErrs[i]
	}
	if i < len(f.jsonResults) {
		return f.jsonResults[i], nil
	}
	return nil, fmt.Errorf("unscripted GenerateJSON call %d", i)
}

func (f *fakeOpenAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	f.textCalls++
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.textResult, nil
}

// fakeScorer and fakeInsight script the pipeline stages independently of
// prompt plumbing.
type fakeScorer struct {
	results     []RiskAssessment
	errs        []error
	calls       int
	modelScores []float64
}

func (f *fakeScorer) Score(ctx context.Context, student *types.Student, modelScore float64) (*RiskAssessment, error) {
	i := f.calls
	f.calls++
	f.modelScores = append(f.modelScores, modelScore)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		r := f.results[i]
		return &r, nil
	}
	return &RiskAssessment{RiskScore: 0.5, RiskFactors: "scripted default"}, nil
}

type fakeInsight struct {
	insight string
	err     error
	calls   int
}

func (f *fakeInsight) Explain(ctx context.Context, student *types.Student, riskScore float64, riskFactors string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.insight != "" {
		return f.insight, nil
	}
	return "scripted insight", nil
}

// fakeStudentRepo is an in-memory StudentRepo mimicking the store's
// semantics: batch create is all-or-nothing, metric updates never touch
// the ledger columns.
type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[uuid.UUID]*types.Student
	order    []uuid.UUID

	createErr error
	listErr   error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*types.Student)}
}

func cloneStudent(s *types.Student) *types.Student {
	cp := *s
	if s.RiskScore != nil {
		v := *s.RiskScore
		cp.RiskScore = &v
	}
	cp.PredictionHistory = append([]byte(nil), s.PredictionHistory...)
	return &cp
}

func (f *fakeStudentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, students []*types.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, s := range students {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		f.students[s.ID] = cloneStudent(s)
		f.order = append(f.order, s.ID)
	}
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	return cloneStudent(s), nil
}

func (f *fakeStudentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*types.Student, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if s, ok := f.students[f.order[i]]; ok {
			out = append(out, cloneStudent(s))
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) UpdateMetrics(ctx context.Context, tx *gorm.DB, id uuid.UUID, m types.StudentMetrics) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return 0, nil
	}
	s.SetMetrics(m)
	return 1, nil
}

func (f *fakeStudentRepo) SavePrediction(ctx context.Context, tx *gorm.DB, student *types.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[student.ID]
	if !ok {
		return 0, nil
	}
	s.PredictionHistory = append([]byte(nil), student.PredictionHistory...)
	if student.RiskScore != nil {
		v := *student.RiskScore
		s.RiskScore = &v
	} else {
		s.RiskScore = nil
	}
	return 1, nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return 0, nil
	}
	delete(f.students, id)
	return 1, nil
}

func (f *fakeStudentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.students)
}

// fakeCache is a map-backed Cache recording invalidations.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.entries, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeCache) Close() error { return nil }
