package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/types"
)

type StudentRepo interface {
  // CreateBatch inserts all records in a single multi-row INSERT, so the
  // write is all-or-nothing by construction.
  CreateBatch(ctx context.Context, tx *gorm.DB, students []*types.Student) error
  // GetByID returns (nil, nil) for a missing identity.
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Student, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
  // UpdateMetrics replaces metric columns only; risk_score and
  // prediction_history are never part of the update set.
  UpdateMetrics(ctx context.Context, tx *gorm.DB, id uuid.UUID, m types.StudentMetrics) (int64, error)
  // SavePrediction persists a refreshed ledger and latest score.
  SavePrediction(ctx context.Context, tx *gorm.DB, student *types.Student) (int64, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type studentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
  repoLog := baseLog.With("repo", "StudentRepo")
  return &studentRepo{db: db, log: repoLog}
}

func (sr *studentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, students []*types.Student) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(students) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).Create(&students).Error; err != nil {
    return err
  }
  return nil
}

func (sr *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Student, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var result types.Student
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (sr *studentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.Student
  if err := transaction.WithContext(ctx).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *studentRepo) UpdateMetrics(ctx context.Context, tx *gorm.DB, id uuid.UUID, m types.StudentMetrics) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  res := transaction.WithContext(ctx).
    Model(&types.Student{}).
    Where("id = ?", id).
    Updates(map[string]any{
      "student_id":             m.StudentID,
      "name":                   m.Name,
      "age":                    m.Age,
      "gender":                 m.Gender,
      "attendance_percent":     m.AttendancePercent,
      "study_hours_per_week":   m.StudyHoursPerWeek,
      "previous_marks":         m.PreviousMarks,
      "assignments_score":      m.AssignmentsScore,
      "participation_score":    m.ParticipationScore,
      "extra_curricular_score": m.ExtraCurricularScore,
    })
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (sr *studentRepo) SavePrediction(ctx context.Context, tx *gorm.DB, student *types.Student) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  res := transaction.WithContext(ctx).
    Model(&types.Student{}).
    Where("id = ?", student.ID).
    Updates(map[string]any{
      "risk_score":         student.RiskScore,
      "prediction_history": student.PredictionHistory,
    })
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (sr *studentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  res := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Student{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
