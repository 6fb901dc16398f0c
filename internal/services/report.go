package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/edusight/edusight-backend/internal/apperr"
  redisclient "github.com/edusight/edusight-backend/internal/clients/redis"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/repos"
  "github.com/edusight/edusight-backend/internal/types"
)

const classAveragesTTL = 5 * time.Minute

// ClassAverages are the per-metric means over the whole student set.
type ClassAverages struct {
  AvgAttendance           float64 `json:"avgAttendance"`
  AvgStudyHours           float64 `json:"avgStudyHours"`
  AvgPreviousMarks        float64 `json:"avgPreviousMarks"`
  AvgAssignmentsScore     float64 `json:"avgAssignmentsScore"`
  AvgParticipationScore   float64 `json:"avgParticipationScore"`
  AvgExtraCurricularScore float64 `json:"avgExtraCurricularScore"`
}

// ReportService generates a narrative report comparing one student
// against class averages.
type ReportService interface {
  Generate(ctx context.Context, studentID uuid.UUID) (string, error)
  Averages(ctx context.Context) (*ClassAverages, error)
}

type reportService struct {
  log         *logger.Logger
  studentRepo repos.StudentRepo
  client      OpenAIClient
  cache       redisclient.Cache
}

func NewReportService(
  baseLog *logger.Logger,
  studentRepo repos.StudentRepo,
  client OpenAIClient,
  cache redisclient.Cache,
) ReportService {
  serviceLog := baseLog.With("service", "ReportService")
  return &reportService{
    log:         serviceLog,
    studentRepo: studentRepo,
    client:      client,
    cache:       cache,
  }
}

// ComputeClassAverages is a pure helper over a student set.
func ComputeClassAverages(students []*types.Student) ClassAverages {
  var avg ClassAverages
  if len(students) == 0 {
    return avg
  }
  n := float64(len(students))
  for _, s := range students {
    avg.AvgAttendance += s.AttendancePercent
    avg.AvgStudyHours += s.StudyHoursPerWeek
    avg.AvgPreviousMarks += s.PreviousMarks
    avg.AvgAssignmentsScore += s.AssignmentsScore
    avg.AvgParticipationScore += s.ParticipationScore
    avg.AvgExtraCurricularScore += s.ExtraCurricularScore
  }
  avg.AvgAttendance /= n
  avg.AvgStudyHours /= n
  avg.AvgPreviousMarks /= n
  avg.AvgAssignmentsScore /= n
  avg.AvgParticipationScore /= n
  avg.AvgExtraCurricularScore /= n
  return avg
}

func (rs *reportService) Averages(ctx context.Context) (*ClassAverages, error) {
  if rs.cache != nil {
    var cached ClassAverages
    hit, err := rs.cache.GetJSON(ctx, cacheKeyClassAverages, &cached)
    if err != nil {
      rs.log.Warn("class averages cache read failed, recomputing", "error", err)
    } else if hit {
      return &cached, nil
    }
  }

  students, err := rs.studentRepo.List(ctx, nil)
  if err != nil {
    return nil, apperr.Store("list students", err)
  }
  avg := ComputeClassAverages(students)

  if rs.cache != nil {
    if err := rs.cache.SetJSON(ctx, cacheKeyClassAverages, avg, classAveragesTTL); err != nil {
      rs.log.Warn("class averages cache write failed", "error", err)
    }
  }
  return &avg, nil
}

const reportSystemPrompt = "You are an expert educational analyst."

func (rs *reportService) Generate(ctx context.Context, studentID uuid.UUID) (string, error) {
  student, err := rs.studentRepo.GetByID(ctx, nil, studentID)
  if err != nil {
    return "", apperr.Store("load student", err)
  }
  if student == nil {
    return "", apperr.NotFound("student not found")
  }

  avg, err := rs.Averages(ctx)
  if err != nil {
    return "", err
  }

  var b strings.Builder
  fmt.Fprintf(&b, "Your task is to generate a performance report for a student named %s.\n\n", student.Name)
  b.WriteString("Analyze the student's metrics in comparison to the class averages and provide a concise, insightful summary (3-4 sentences).\n\n")
  b.WriteString("Student's Data:\n")
  fmt.Fprintf(&b, "- Attendance: %g%%\n", student.AttendancePercent)
  fmt.Fprintf(&b, "- Study Hours/Week: %g\n", student.StudyHoursPerWeek)
  fmt.Fprintf(&b, "- Previous Marks: %g%%\n", student.PreviousMarks)
  fmt.Fprintf(&b, "- Assignments Score: %g%%\n", student.AssignmentsScore)
  fmt.Fprintf(&b, "- Participation Score: %g%%\n", student.ParticipationScore)
  fmt.Fprintf(&b, "- Extra-Curricular Score: %g%%\n", student.ExtraCurricularScore)
  if student.RiskScore != nil {
    fmt.Fprintf(&b, "- Risk Score: %.4f\n", *student.RiskScore)
  }
  b.WriteString("\nClass Averages:\n")
  fmt.Fprintf(&b, "- Attendance: %.2f%%\n", avg.AvgAttendance)
  fmt.Fprintf(&b, "- Study Hours/Week: %.2f\n", avg.AvgStudyHours)
  fmt.Fprintf(&b, "- Previous Marks: %.2f%%\n", avg.AvgPreviousMarks)
  fmt.Fprintf(&b, "- Assignments Score: %.2f%%\n", avg.AvgAssignmentsScore)
  fmt.Fprintf(&b, "- Participation Score: %.2f%%\n", avg.AvgParticipationScore)
  fmt.Fprintf(&b, "- Extra-Curricular Score: %.2f%%\n", avg.AvgExtraCurricularScore)
  b.WriteString("\nBased on this data, generate a summary that highlights where the student excels compared to their peers and which areas may require attention. Be objective and constructive in your analysis.\n")

  report, err := rs.client.GenerateText(ctx, reportSystemPrompt, b.String())
  if err != nil {
    return "", apperr.ExternalService("report generation call failed", err)
  }
  return strings.TrimSpace(report), nil
}
