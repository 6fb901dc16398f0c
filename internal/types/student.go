package types

import (
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Gender string

const (
  GenderMale   Gender = "Male"
  GenderFemale Gender = "Female"
  GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
  switch g {
  case GenderMale, GenderFemale, GenderOther:
    return true
  }
  return false
}

// StudentMetrics are the raw inputs to scoring. They are replaced as a
// unit by metric edits and never touched by score refreshes.
type StudentMetrics struct {
  StudentID            string  `json:"studentId"`
  Name                 string  `json:"name"`
  Age                  int     `json:"age"`
  Gender               Gender  `json:"gender"`
  AttendancePercent    float64 `json:"attendancePercent"`
  StudyHoursPerWeek    float64 `json:"studyHoursPerWeek"`
  PreviousMarks        float64 `json:"previousMarks"`
  AssignmentsScore     float64 `json:"assignmentsScore"`
  ParticipationScore   float64 `json:"participationScore"`
  ExtraCurricularScore float64 `json:"extraCurricularScore"`
}

type Student struct {
  ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  StudentID            string         `gorm:"uniqueIndex;not null;column:student_id" json:"studentId"`
  Name                 string         `gorm:"not null;column:name" json:"name"`
  Age                  int            `gorm:"not null;column:age" json:"age"`
  Gender               Gender         `gorm:"type:text;not null;column:gender" json:"gender"`
  AttendancePercent    float64        `gorm:"not null;column:attendance_percent" json:"attendancePercent"`
  StudyHoursPerWeek    float64        `gorm:"not null;column:study_hours_per_week" json:"studyHoursPerWeek"`
  PreviousMarks        float64        `gorm:"not null;column:previous_marks" json:"previousMarks"`
  AssignmentsScore     float64        `gorm:"not null;column:assignments_score" json:"assignmentsScore"`
  ParticipationScore   float64        `gorm:"not null;column:participation_score" json:"participationScore"`
  ExtraCurricularScore float64        `gorm:"not null;column:extra_curricular_score" json:"extraCurricularScore"`
  RiskScore            *float64       `gorm:"column:risk_score" json:"riskScore,omitempty"`
  PredictionHistory    datatypes.JSON `gorm:"type:jsonb;not null;default:'[]';column:prediction_history" json:"predictionHistory"`
  CreatedAt            time.Time      `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Student) TableName() string {
  return "student"
}

// NewStudent builds an unsaved record from metrics. Identity comes from
// the caller so the scoring prompt can reference it before the first write.
func NewStudent(id uuid.UUID, m StudentMetrics) *Student {
  s := &Student{
    ID:                id,
    PredictionHistory: datatypes.JSON([]byte("[]")),
  }
  s.SetMetrics(m)
  return s
}

// SetMetrics replaces metric fields only. RiskScore and PredictionHistory
// are left alone.
func (s *Student) SetMetrics(m StudentMetrics) {
  s.StudentID = m.StudentID
  s.Name = m.Name
  s.Age = m.Age
  s.Gender = m.Gender
  s.AttendancePercent = m.AttendancePercent
  s.StudyHoursPerWeek = m.StudyHoursPerWeek
  s.PreviousMarks = m.PreviousMarks
  s.AssignmentsScore = m.AssignmentsScore
  s.ParticipationScore = m.ParticipationScore
  s.ExtraCurricularScore = m.ExtraCurricularScore
}

func (s *Student) Metrics() StudentMetrics {
  return StudentMetrics{
    StudentID:            s.StudentID,
    Name:                 s.Name,
    Age:                  s.Age,
    Gender:               s.Gender,
    AttendancePercent:    s.AttendancePercent,
    StudyHoursPerWeek:    s.StudyHoursPerWeek,
    PreviousMarks:        s.PreviousMarks,
    AssignmentsScore:     s.AssignmentsScore,
    ParticipationScore:   s.ParticipationScore,
    ExtraCurricularScore: s.ExtraCurricularScore,
  }
}

// History decodes the prediction ledger in chronological order.
func (s *Student) History() ([]Prediction, error) {
  if len(s.PredictionHistory) == 0 {
    return []Prediction{}, nil
  }
  var out []Prediction
  if err := json.Unmarshal(s.PredictionHistory, &out); err != nil {
    return nil, fmt.Errorf("decode prediction history: %w", err)
  }
  if out == nil {
    out = []Prediction{}
  }
  return out, nil
}

// AppendPrediction appends to the ledger and moves RiskScore to the new
// entry's score. Prior entries are never rewritten or reordered.
func (s *Student) AppendPrediction(p Prediction) error {
  history, err := s.History()
  if err != nil {
    return err
  }
  history = append(history, p)
  raw, err := json.Marshal(history)
  if err != nil {
    return fmt.Errorf("encode prediction history: %w", err)
  }
  s.PredictionHistory = datatypes.JSON(raw)
  score := p.RiskScore
  s.RiskScore = &score
  return nil
}

// LatestPrediction returns the newest ledger entry, or false for a record
// that has never been scored.
func (s *Student) LatestPrediction() (Prediction, bool, error) {
  history, err := s.History()
  if err != nil {
    return Prediction{}, false, err
  }
  if len(history) == 0 {
    return Prediction{}, false, nil
  }
  return history[len(history)-1], true, nil
}
