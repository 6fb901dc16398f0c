package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/edusight/edusight-backend/internal/apperr"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/types"
)

// RiskAssessment is the scoring capability's structured output.
type RiskAssessment struct {
  RiskScore   float64 `json:"riskScore"`
  RiskFactors string  `json:"riskFactors"`
}

// RiskScorer produces a bounded risk score plus a factors summary for one
// student. modelScore is auxiliary context for the prompt: the baseline
// estimate on first scoring, the previous score on a refresh.
type RiskScorer interface {
  Score(ctx context.Context, student *types.Student, modelScore float64) (*RiskAssessment, error)
}

type riskScorer struct {
  log    *logger.Logger
  client OpenAIClient
}

func NewRiskScorer(baseLog *logger.Logger, client OpenAIClient) RiskScorer {
  serviceLog := baseLog.With("service", "RiskScorer")
  return &riskScorer{log: serviceLog, client: client}
}

var riskScoreSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "riskScore": map[string]any{
      "type":        "number",
      "description": "The calculated risk score for the student (between 0 and 1).",
    },
    "riskFactors": map[string]any{
      "type":        "string",
      "description": "A summary of the key factors contributing to the student's risk score.",
    },
  },
  "required":             []string{"riskScore", "riskFactors"},
  "additionalProperties": false,
}

const riskScoreSystemPrompt = "You are an AI assistant that evaluates student data and calculates a risk score, providing insights into potential needs for additional support."

func (rs *riskScorer) Score(ctx context.Context, student *types.Student, modelScore float64) (*RiskAssessment, error) {
  var b strings.Builder
  b.WriteString("Evaluate the following student data:\n")
  fmt.Fprintf(&b, "- Student ID: %s\n", student.StudentID)
  fmt.Fprintf(&b, "- Name: %s\n", student.Name)
  fmt.Fprintf(&b, "- Age: %d\n", student.Age)
  fmt.Fprintf(&b, "- Gender: %s\n", student.Gender)
  fmt.Fprintf(&b, "- Attendance Percentage: %g\n", student.AttendancePercent)
  fmt.Fprintf(&b, "- Study Hours Per Week: %g\n", student.StudyHoursPerWeek)
  fmt.Fprintf(&b, "- Previous Marks: %g\n", student.PreviousMarks)
  fmt.Fprintf(&b, "- Assignments Score: %g\n", student.AssignmentsScore)
  fmt.Fprintf(&b, "- Participation Score: %g\n", student.ParticipationScore)
  fmt.Fprintf(&b, "- Extra-Curricular Score: %g\n", student.ExtraCurricularScore)
  fmt.Fprintf(&b, "- Model Risk Score: %.4f\n", modelScore)
  b.WriteString("\nBased on this information, calculate a risk score between 0 and 1 (inclusive), where 0 indicates very low risk and 1 indicates very high risk. Provide also a short list of the most important risk factors.\n")

  obj, err := rs.client.GenerateJSON(ctx, riskScoreSystemPrompt, b.String(), "calculate_student_risk_score", riskScoreSchema)
  if err != nil {
    return nil, apperr.ExternalService("risk scoring call failed", err)
  }

  score, ok := obj["riskScore"].(float64)
  if !ok {
    return nil, apperr.ExternalService("risk scoring response missing riskScore", nil)
  }
  factors, ok := obj["riskFactors"].(string)
  if !ok {
    return nil, apperr.ExternalService("risk scoring response missing riskFactors", nil)
  }
  // Out-of-range scores are rejected, not clamped: a capability that
  // violates its own schema is not trusted to have scored correctly.
  if score < 0 || score > 1 {
    return nil, apperr.ExternalService(fmt.Sprintf("risk score %g outside [0,1]", score), nil)
  }

  return &RiskAssessment{RiskScore: score, RiskFactors: factors}, nil
}
