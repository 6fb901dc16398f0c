package services

import (
  "context"
  "fmt"
  "strings"
  "unicode/utf8"

  "github.com/edusight/edusight-backend/internal/apperr"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/types"
)

// maxInsightLen bounds stored insight text. The prompt asks for ~50 words;
// anything past the cap is truncated before it reaches the ledger.
const maxInsightLen = 600

// InsightGenerator turns a completed risk assessment into a short
// actionable note for an educator. It must run after scoring: the prompt
// embeds the score and factors.
type InsightGenerator interface {
  Explain(ctx context.Context, student *types.Student, riskScore float64, riskFactors string) (string, error)
}

type insightGenerator struct {
  log    *logger.Logger
  client OpenAIClient
}

func NewInsightGenerator(baseLog *logger.Logger, client OpenAIClient) InsightGenerator {
  serviceLog := baseLog.With("service", "InsightGenerator")
  return &insightGenerator{log: serviceLog, client: client}
}

var insightSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "insight": map[string]any{
      "type":        "string",
      "description": "The predictive insight for the student.",
    },
  },
  "required":             []string{"insight"},
  "additionalProperties": false,
}

const insightSystemPrompt = "You are an AI assistant that provides predictive insights for a student based on their data and a pre-calculated risk analysis."

func (ig *insightGenerator) Explain(ctx context.Context, student *types.Student, riskScore float64, riskFactors string) (string, error) {
  var b strings.Builder
  fmt.Fprintf(&b, "Student Name: %s\n\n", student.Name)
  b.WriteString("Student Data:\n")
  fmt.Fprintf(&b, "- Age: %d\n", student.Age)
  fmt.Fprintf(&b, "- Gender: %s\n", student.Gender)
  fmt.Fprintf(&b, "- Attendance: %g%%\n", student.AttendancePercent)
  fmt.Fprintf(&b, "- Study Hours/Week: %g\n", student.StudyHoursPerWeek)
  fmt.Fprintf(&b, "- Previous Marks: %g%%\n", student.PreviousMarks)
  fmt.Fprintf(&b, "- Assignments Score: %g%%\n", student.AssignmentsScore)
  fmt.Fprintf(&b, "- Participation Score: %g%%\n", student.ParticipationScore)
  fmt.Fprintf(&b, "- Extra-Curricular Score: %g%%\n", student.ExtraCurricularScore)
  b.WriteString("\nAI Risk Analysis:\n")
  fmt.Fprintf(&b, "- Calculated Risk Score: %.4f\n", riskScore)
  fmt.Fprintf(&b, "- Key Risk Factors: %s\n", riskFactors)
  b.WriteString("\nBased on all of the above, provide a concise, actionable insight (maximum 50 words) for an educator. The insight should explain why the student might be at risk and suggest a potential area for intervention.\n")

  obj, err := ig.client.GenerateJSON(ctx, insightSystemPrompt, b.String(), "get_predictive_insights_for_student", insightSchema)
  if err != nil {
    return "", apperr.ExternalService("insight generation call failed", err)
  }

  insight, ok := obj["insight"].(string)
  if !ok || strings.TrimSpace(insight) == "" {
    return "", apperr.ExternalService("insight response missing insight text", nil)
  }
  insight = strings.TrimSpace(insight)
  if len(insight) > maxInsightLen {
    // Cut on a rune boundary so the stored text stays valid UTF-8.
    cut := maxInsightLen
    for cut > 0 && !utf8.RuneStart(insight[cut]) {
      cut--
    }
    insight = insight[:cut]
  }
  return insight, nil
}
