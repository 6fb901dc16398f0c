package services

import (
  "context"
  "fmt"
  "sync"
  "time"

  "github.com/google/uuid"

  "github.com/edusight/edusight-backend/internal/apperr"
  redisclient "github.com/edusight/edusight-backend/internal/clients/redis"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/repos"
  "github.com/edusight/edusight-backend/internal/types"
)

const (
  bulkMinRecords = 1
  bulkMaxRecords = 500
)

// Cache keys for derived values recomputed from the student set. Any
// write invalidates both.
const (
  cacheKeyClassAverages    = "edusight:class_averages"
  cacheKeyDashboardSummary = "edusight:dashboard_summary"
)

// StudentService owns the record lifecycle: identity allocation, the
// score -> insight -> append pipeline, and persistence sequencing. A
// record created through Add or BulkAdd is never persisted without at
// least one prediction.
type StudentService interface {
  Add(ctx context.Context, m types.StudentMetrics) (*types.Student, error)
  BulkAdd(ctx context.Context, metrics []types.StudentMetrics) (int, error)
  Get(ctx context.Context, id uuid.UUID) (*types.Student, error)
  List(ctx context.Context) ([]*types.Student, error)
  UpdateMetrics(ctx context.Context, id uuid.UUID, m types.StudentMetrics) (*types.Student, error)
  RefreshScore(ctx context.Context, id uuid.UUID) (*types.Prediction, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type studentService struct {
  log         *logger.Logger
  studentRepo repos.StudentRepo
  scorer      RiskScorer
  insights    InsightGenerator
  cache       redisclient.Cache

  // Serializes refresh per identity so concurrent refreshes cannot lose
  // a ledger append. Entries are never evicted; the map is bounded by the
  // student population of a single deployment.
  refreshMu    sync.Mutex
  refreshLocks map[uuid.UUID]*sync.Mutex
}

func NewStudentService(
  baseLog *logger.Logger,
  studentRepo repos.StudentRepo,
  scorer RiskScorer,
  insights InsightGenerator,
  cache redisclient.Cache,
) StudentService {
  serviceLog := baseLog.With("service", "StudentService")
  return &studentService{
    log:          serviceLog,
    studentRepo:  studentRepo,
    scorer:       scorer,
    insights:     insights,
    cache:        cache,
    refreshLocks: make(map[uuid.UUID]*sync.Mutex),
  }
}

// runPipeline scores the student, generates the insight, and appends the
// resulting prediction. Strict ordering: the insight prompt embeds the
// score and factors, so scoring always completes first.
func (ss *studentService) runPipeline(ctx context.Context, student *types.Student, modelScore float64) error {
  assessment, err := ss.scorer.Score(ctx, student, modelScore)
  if err != nil {
    return err
  }
  insight, err := ss.insights.Explain(ctx, student, assessment.RiskScore, assessment.RiskFactors)
  if err != nil {
    return err
  }
  if err := student.AppendPrediction(types.Prediction{
    RiskScore: assessment.RiskScore,
    Insight:   insight,
    CreatedAt: time.Now().UTC(),
  }); err != nil {
    return apperr.Store("append prediction", err)
  }
  return nil
}

func (ss *studentService) Add(ctx context.Context, m types.StudentMetrics) (*types.Student, error) {
  // Identity is allocated before scoring; the scoring prompt references it.
  student := types.NewStudent(uuid.New(), m)

  if err := ss.runPipeline(ctx, student, BaselineRiskEstimate(m)); err != nil {
    return nil, err
  }

  if err := ss.studentRepo.CreateBatch(ctx, nil, []*types.Student{student}); err != nil {
    return nil, apperr.Store("create student", err)
  }
  ss.invalidateDerived(ctx)
  ss.log.Info("student created", "record_id", student.ID.String())
  return student, nil
}

func (ss *studentService) BulkAdd(ctx context.Context, metrics []types.StudentMetrics) (int, error) {
  if len(metrics) < bulkMinRecords || len(metrics) > bulkMaxRecords {
    return 0, apperr.Validation(fmt.Sprintf("invalid number of students: must be between %d and %d", bulkMinRecords, bulkMaxRecords))
  }

  // Score sequentially: one external call in flight at a time per batch.
  // Any failure aborts the whole batch before a single row is written.
  students := make([]*types.Student, 0, len(metrics))
  for i, m := range metrics {
    student := types.NewStudent(uuid.New(), m)
    if err := ss.runPipeline(ctx, student, BaselineRiskEstimate(m)); err != nil {
      ss.log.Warn("bulk add aborted by pipeline failure", "row", i, "error", err)
      return 0, err
    }
    students = append(students, student)
  }

  // Single multi-row insert: all records become visible or none do.
  if err := ss.studentRepo.CreateBatch(ctx, nil, students); err != nil {
    return 0, apperr.Store("bulk create students", err)
  }
  ss.invalidateDerived(ctx)
  ss.log.Info("bulk add committed", "count", len(students))
  return len(students), nil
}

func (ss *studentService) Get(ctx context.Context, id uuid.UUID) (*types.Student, error) {
  student, err := ss.studentRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, apperr.Store("load student", err)
  }
  if student == nil {
    return nil, apperr.NotFound("student not found")
  }
  return student, nil
}

func (ss *studentService) List(ctx context.Context) ([]*types.Student, error) {
  students, err := ss.studentRepo.List(ctx, nil)
  if err != nil {
    return nil, apperr.Store("list students", err)
  }
  return students, nil
}

func (ss *studentService) UpdateMetrics(ctx context.Context, id uuid.UUID, m types.StudentMetrics) (*types.Student, error) {
  rows, err := ss.studentRepo.UpdateMetrics(ctx, nil, id, m)
  if err != nil {
    return nil, apperr.Store("update student metrics", err)
  }
  if rows == 0 {
    return nil, apperr.NotFound("student not found")
  }
  ss.invalidateDerived(ctx)

  // The store is authoritative: return the persisted record, not a
  // locally assembled copy.
  student, err := ss.studentRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, apperr.Store("reload student", err)
  }
  if student == nil {
    return nil, apperr.NotFound("student not found")
  }
  return student, nil
}

func (ss *studentService) RefreshScore(ctx context.Context, id uuid.UUID) (*types.Prediction, error) {
  unlock := ss.lockRefresh(id)
  defer unlock()

  student, err := ss.studentRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, apperr.Store("load student", err)
  }
  if student == nil {
    return nil, apperr.NotFound("student not found")
  }

  // Previous score is the auxiliary prompt context on refresh; a record
  // that somehow has none falls back to the baseline estimate.
  modelScore := BaselineRiskEstimate(student.Metrics())
  if student.RiskScore != nil {
    modelScore = *student.RiskScore
  }

  if err := ss.runPipeline(ctx, student, modelScore); err != nil {
    return nil, err
  }

  rows, err := ss.studentRepo.SavePrediction(ctx, nil, student)
  if err != nil {
    return nil, apperr.Store("save prediction", err)
  }
  if rows == 0 {
    return nil, apperr.NotFound("student not found")
  }
  ss.invalidateDerived(ctx)

  latest, ok, err := student.LatestPrediction()
  if err != nil {
    return nil, apperr.Store("decode prediction history", err)
  }
  if !ok {
    return nil, apperr.Store("prediction history empty after refresh", nil)
  }
  ss.log.Info("score refreshed", "record_id", id.String(), "risk_score", latest.RiskScore)
  return &latest, nil
}

// Delete is not idempotent: deleting an absent identity is NotFound.
func (ss *studentService) Delete(ctx context.Context, id uuid.UUID) error {
  rows, err := ss.studentRepo.Delete(ctx, nil, id)
  if err != nil {
    return apperr.Store("delete student", err)
  }
  if rows == 0 {
    return apperr.NotFound("student not found")
  }
  ss.invalidateDerived(ctx)
  ss.log.Info("student deleted", "record_id", id.String())
  return nil
}

func (ss *studentService) lockRefresh(id uuid.UUID) func() {
  ss.refreshMu.Lock()
  lock, ok := ss.refreshLocks[id]
  if !ok {
    lock = &sync.Mutex{}
    ss.refreshLocks[id] = lock
  }
  ss.refreshMu.Unlock()
  lock.Lock()
  return lock.Unlock
}

func (ss *studentService) invalidateDerived(ctx context.Context) {
  if ss.cache == nil {
    return
  }
  if err := ss.cache.Delete(ctx, cacheKeyClassAverages, cacheKeyDashboardSummary); err != nil {
    ss.log.Warn("cache invalidation failed", "error", err)
  }
}
