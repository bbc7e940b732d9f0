package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

const (
	aiHistoryLimit      = 8
	defaultOverdueLimit = 10
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type coopAnalytics interface {
	Summary(ctx context.Context, year int) (dto.DashboardSummary, error)
	MemberSummary(ctx context.Context, memberID string) (dto.MemberSummary, error)
	OverdueLoans(ctx context.Context, limit int) ([]dto.LoanSnapshot, error)
}

type aiStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error)
}

type aiService struct {
	vertex    vertexClient
	analytics coopAnalytics
	dividends dividendPreviewer
	store     aiStore
	ttl       time.Duration
	clockNow  func() time.Time
	newID     func() string
}

func NewAIService(vertex vertexClient, analytics coopAnalytics, dividends dividendPreviewer, store aiStore, ttl time.Duration) *aiService {
	return &aiService{
		vertex:    vertex,
		analytics: analytics,
		dividends: dividends,
		store:     store,
		ttl:       ttl,
		clockNow:  utcNow,
		newID:     uuid.NewString,
	}
}

// Query answers an admin's question, calling at most one tool. An empty
// sessionID starts a new conversation.
func (s *aiService) Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	if message == "" {
		return dto.AIQueryResponse{}, errs.NewValidationError("message is required")
	}
	if sessionID == "" {
		sessionID = s.newID()
	}
	log, ctx := logger.With(ctx, "session_id", sessionID)

	history, err := s.store.ListMessages(ctx, uid, sessionID, aiHistoryLimit)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	now := s.clockNow()
	system := systemPrompt(now, s.liveFigures(ctx, now.Year()))
	contents := convertMessagesToContents(history, message)
	req := dto.VertexGenerateRequest{
		System:     system,
		Contents:   contents,
		Tools:      toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{Mode: dto.FunctionCallingModeAuto},
	}

	resp, err := s.vertex.GenerateContent(ctx, req)
	if err != nil {
		var malformed *errs.MalformedFunctionCallError
		if errors.As(err, &malformed) {
			log.Warn("malformed function call, retrying with strict prompt")
			strictReq := req
			strictReq.System = strictSystemPrompt(system)
			resp, err = s.vertex.GenerateContent(ctx, strictReq)
		}
	}
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if len(resp.ToolCalls) == 0 {
		if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "user", Content: message}); err != nil {
			return dto.AIQueryResponse{}, err
		}
		if resp.Text != "" {
			if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "assistant", Content: resp.Text}); err != nil {
				return dto.AIQueryResponse{}, err
			}
		}
		log.Info("ai query completed")
		return dto.AIQueryResponse{SessionID: sessionID, Answer: resp.Text}, nil
	}

	if len(resp.ToolCalls) > 1 {
		log.Warn("received multiple tool calls, only processing the first", "count", len(resp.ToolCalls))
	}
	toolCall := resp.ToolCalls[0]
	if !isValidToolName(toolCall.Name) {
		return dto.AIQueryResponse{}, errs.NewValidationError(fmt.Sprintf("model requested unknown tool: %s", toolCall.Name))
	}

	log.Info("executing tool", "tool", toolCall.Name)
	toolResult, err := s.executeTool(ctx, toolCall)
	if err != nil {
		return dto.AIQueryResponse{}, fmt.Errorf("failed to execute tool %s: %w", toolCall.Name, err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "user", Content: message}); err != nil {
		return dto.AIQueryResponse{}, err
	}
	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:       "tool",
		ToolName:   toolCall.Name,
		ToolArgs:   toolCall.Args,
		ToolResult: toolResult.Response,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	withResult := append(contents,
		dto.VertexContent{Role: "model", Parts: []dto.VertexPart{{FunctionCall: &toolCall}}},
		dto.VertexContent{Role: "user", Parts: []dto.VertexPart{{FunctionResponse: &toolResult}}},
	)
	finalResp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:     system,
		Contents:   withResult,
		Tools:      toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{Mode: dto.FunctionCallingModeNone},
	})
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{Role: "assistant", Content: finalResp.Text}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	log.Info("ai query completed", "tool", toolCall.Name)
	return dto.AIQueryResponse{
		SessionID: sessionID,
		Answer:    finalResp.Text,
		Debug:     &dto.AIDebugInfo{Tool: toolCall.Name, Args: toolCall.Args},
	}, nil
}

// liveFigures renders the headline aggregates for the system prompt. A
// failure only drops them from the prompt.
func (s *aiService) liveFigures(ctx context.Context, year int) string {
	sum, err := s.analytics.Summary(ctx, year)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load summary for prompt", "error", err)
		return ""
	}
	return fmt.Sprintf(
		"Members: %d (%d active, %d inactive). Funds: %.2f. Savings: %.2f. Yields: %.2f. "+
			"Current loans: %d with %.2f outstanding, %d overdue. Pending requests: %s.",
		sum.Members.Total, sum.Members.Active, sum.Members.Inactive,
		sum.Funds, sum.Savings, sum.Yields,
		sum.Loans.Current, sum.Loans.Outstanding, sum.Loans.Overdue,
		pendingText(sum.PendingRequests),
	)
}

func pendingText(p map[string]int) string {
	out := ""
	for _, k := range []string{"registrations", "deposits", "withdrawals", "loans", "payments"} {
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%d %s", p[k], k)
	}
	return out
}

// trimToUserTurn drops leading records until the window starts on a user
// message; a limited history can begin partway through a turn.
func trimToUserTurn(history []models.AIMessage) []models.AIMessage {
	for i, msg := range history {
		if msg.Role == "user" {
			return history[i:]
		}
	}
	return nil
}

func convertMessagesToContents(history []models.AIMessage, currentMessage string) []dto.VertexContent {
	history = trimToUserTurn(history)
	contents := make([]dto.VertexContent, 0, 2*len(history)+1)

	for _, msg := range history {
		switch msg.Role {
		case "user":
			contents = append(contents, dto.VertexContent{
				Role:  "user",
				Parts: []dto.VertexPart{{Text: helpers.Ptr(msg.Content)}},
			})

		case "assistant":
			if msg.Content != "" {
				contents = append(contents, dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{Text: helpers.Ptr(msg.Content)}},
				})
			}

		case "tool":
			// a stored tool turn replays as the model's call plus our
			// response; Firestore drops empty maps so both may come back nil
			if msg.ToolName == "" {
				continue
			}
			args := msg.ToolArgs
			if args == nil {
				args = map[string]any{}
			}
			result := msg.ToolResult
			if result == nil {
				result = map[string]any{}
			}
			contents = append(contents,
				dto.VertexContent{
					Role:  "model",
					Parts: []dto.VertexPart{{FunctionCall: &dto.VertexToolCall{Name: msg.ToolName, Args: args}}},
				},
				dto.VertexContent{
					Role:  "user",
					Parts: []dto.VertexPart{{FunctionResponse: &dto.VertexToolResult{Name: msg.ToolName, Response: result}}},
				},
			)
		}
	}

	contents = append(contents, dto.VertexContent{
		Role:  "user",
		Parts: []dto.VertexPart{{Text: helpers.Ptr(currentMessage)}},
	})
	return contents
}

func (s *aiService) saveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

type memberSummaryArgs struct {
	MemberID string `json:"memberId"`
}

type overdueLoansArgs struct {
	Limit *int `json:"limit"`
}

type dividendPreviewArgs struct {
	Year *int `json:"year"`
}

func (s *aiService) executeTool(ctx context.Context, call dto.VertexToolCall) (dto.VertexToolResult, error) {
	var (
		result any
		err    error
	)
	switch call.Name {
	case "get_coop_summary":
		result, err = s.analytics.Summary(ctx, s.clockNow().Year())

	case "get_member_summary":
		var args memberSummaryArgs
		if args, err = decodeArgs[memberSummaryArgs](call.Args); err != nil {
			return dto.VertexToolResult{}, err
		}
		if !store.ValidKey(args.MemberID) {
			return dto.VertexToolResult{}, errs.NewValidationError("memberId is missing or invalid")
		}
		result, err = s.analytics.MemberSummary(ctx, args.MemberID)

	case "get_overdue_loans":
		var args overdueLoansArgs
		if args, err = decodeArgs[overdueLoansArgs](call.Args); err != nil {
			return dto.VertexToolResult{}, err
		}
		var loans []dto.LoanSnapshot
		loans, err = s.analytics.OverdueLoans(ctx, helpers.ValueOr(args.Limit, defaultOverdueLimit))
		result = map[string]any{"loans": loans, "count": len(loans)}

	case "get_dividend_preview":
		var args dividendPreviewArgs
		if args, err = decodeArgs[dividendPreviewArgs](call.Args); err != nil {
			return dto.VertexToolResult{}, err
		}
		result, err = s.dividends.Preview(ctx, helpers.ValueOr(args.Year, s.clockNow().Year()), nil)

	default:
		return dto.VertexToolResult{}, errs.NewValidationError(fmt.Sprintf("unsupported tool: %s", call.Name))
	}
	if err != nil {
		return dto.VertexToolResult{}, err
	}

	payload, err := toMap(result)
	if err != nil {
		return dto.VertexToolResult{}, err
	}
	return dto.VertexToolResult{Name: call.Name, Response: payload}, nil
}

func toolSchemas() []dto.VertexTool {
	return []dto.VertexTool{
		{
			Name: "get_coop_summary",
			Description: "Current cooperative totals: member counts, Funds, Savings, Yields, loan totals, " +
				"pending request counts and this year's monthly deposit, withdrawal, loan and payment totals.",
			Parameters: &dto.VertexSchema{Type: "object", Properties: map[string]*dto.VertexSchema{}},
		},
		{
			Name:        "get_member_summary",
			Description: "One member's balance, investment, current loans, pending requests and transaction totals by type.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"memberId": {Type: "string", Description: "Member ID. Required."},
				},
				Required: []string{"memberId"},
			},
		},
		{
			Name:        "get_overdue_loans",
			Description: "Current loans past their due date, most overdue first, with accrued penalty.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"limit": {Type: "integer", Description: "Maximum number of loans; defaults to 10."},
				},
			},
		},
		{
			Name: "get_dividend_preview",
			Description: "Preview the dividend allocation for a year from undistributed Yields, " +
				"split by investment, patronage and active months.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"year": {Type: "integer", Description: "Four-digit year; defaults to the current year."},
				},
			},
		},
	}
}

func systemPrompt(now time.Time, figures string) string {
	prompt := "You are the assistant for the administrators of the 5KI cooperative. " +
		"Answer questions about members, loans, deposits, withdrawals, payments and dividends. " +
		"Make only one tool call per request. " +
		"All amounts are in Philippine pesos. Figures must come from tool results or the live figures below - never fabricate them. " +
		"If a question names a member without an ID, ask for the member ID. " +
		"Today is " + now.Format(dateLayout) + " (" + now.Weekday().String() + ")."
	if figures != "" {
		prompt += " Live figures: " + figures
	}
	return prompt
}

func strictSystemPrompt(system string) string {
	return system + " You must respond with a valid tool call that matches the schema. " +
		"If required information is missing, ask a clarification question instead of calling a tool."
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errs.NewValidationError("invalid tool arguments: " + err.Error())
	}
	return out, nil
}

func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isValidToolName(name string) bool {
	switch name {
	case "get_coop_summary", "get_member_summary", "get_overdue_loans", "get_dividend_preview":
		return true
	}
	return false
}
