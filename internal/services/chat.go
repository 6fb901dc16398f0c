package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/edusight/edusight-backend/internal/apperr"
  "github.com/edusight/edusight-backend/internal/logger"
  "github.com/edusight/edusight-backend/internal/repos"
)

// ChatService answers free-form educator questions over a snapshot of the
// whole student set. The snapshot is embedded in the prompt; there is no
// retrieval layer.
type ChatService interface {
  Ask(ctx context.Context, question string) (string, error)
}

type chatService struct {
  log         *logger.Logger
  studentRepo repos.StudentRepo
  client      OpenAIClient
}

func NewChatService(baseLog *logger.Logger, studentRepo repos.StudentRepo, client OpenAIClient) ChatService {
  serviceLog := baseLog.With("service", "ChatService")
  return &chatService{log: serviceLog, studentRepo: studentRepo, client: client}
}

// chatStudentView is the flattened record shape the chatbot sees: metrics
// plus the latest risk score, no prediction history or timestamps.
type chatStudentView struct {
  ID                   string   `json:"id"`
  StudentID            string   `json:"studentId"`
  Name                 string   `json:"name"`
  Age                  int      `json:"age"`
  Gender               string   `json:"gender"`
  AttendancePercent    float64  `json:"attendancePercent"`
  StudyHoursPerWeek    float64  `json:"studyHoursPerWeek"`
  PreviousMarks        float64  `json:"previousMarks"`
  AssignmentsScore     float64  `json:"assignmentsScore"`
  ParticipationScore   float64  `json:"participationScore"`
  ExtraCurricularScore float64  `json:"extraCurricularScore"`
  RiskScore            *float64 `json:"riskScore,omitempty"`
}

const chatSystemPrompt = `You are an AI assistant for educators, specialized in analyzing student performance data.

You have access to a list of students with the following data points:
- id, studentId, name, age, gender, attendancePercent, studyHoursPerWeek, previousMarks, assignmentsScore, participationScore, extraCurricularScore, riskScore.

Your task is to answer the user's question based on the provided student data. Provide clear, concise, and data-driven answers. If the question is ambiguous, ask for clarification. If the question is outside the scope of student performance, politely decline to answer.`

func (cs *chatService) Ask(ctx context.Context, question string) (string, error) {
  question = strings.TrimSpace(question)
  if question == "" {
    return "", apperr.Validation("question is required")
  }

  students, err := cs.studentRepo.List(ctx, nil)
  if err != nil {
    return "", apperr.Store("list students", err)
  }

  views := make([]chatStudentView, 0, len(students))
  for _, s := range students {
    views = append(views, chatStudentView{
      ID:                   s.ID.String(),
      StudentID:            s.StudentID,
      Name:                 s.Name,
      Age:                  s.Age,
      Gender:               string(s.Gender),
      AttendancePercent:    s.AttendancePercent,
      StudyHoursPerWeek:    s.StudyHoursPerWeek,
      PreviousMarks:        s.PreviousMarks,
      AssignmentsScore:     s.AssignmentsScore,
      ParticipationScore:   s.ParticipationScore,
      ExtraCurricularScore: s.ExtraCurricularScore,
      RiskScore:            s.RiskScore,
    })
  }
  dataset, err := json.Marshal(views)
  if err != nil {
    return "", apperr.Store("encode student snapshot", err)
  }

  var b strings.Builder
  b.WriteString("Here is the student data:\n")
  b.Write(dataset)
  fmt.Fprintf(&b, "\n\nUser's question: %q\n\nYour answer:\n", question)

  answer, err := cs.client.GenerateText(ctx, chatSystemPrompt, b.String())
  if err != nil {
    return "", apperr.ExternalService("chat call failed", err)
  }
  return strings.TrimSpace(answer), nil
}
