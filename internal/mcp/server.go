// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the homework task file as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/homework-tracker/internal/logging"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"github.com/valter-silva-au/homework-tracker/internal/presenter"
	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"go.uber.org/zap"
)

// Server wraps the task store and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	store       storage.TaskStore
	metricsCalc observability.MetricsCalculator
	events      observability.EventLog
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithClock overrides the clock used to stamp added tasks and resolve
// stats windows.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithEventLog records tasks added through the server.
func WithEventLog(log observability.EventLog) Option {
	return func(s *Server) { s.events = log }
}

// WithLogger sets the logger for failures that do not fail a tool call.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP server over store. metricsCalc may be nil if
// the event log is disabled.
func NewServer(store storage.TaskStore, metricsCalc observability.MetricsCalculator, version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:       store,
		metricsCalc: metricsCalc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "hwt", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	LoggedAt    string `json:"date_of_log"`
	Color       string `json:"color"`
}

type listHomeworkInput struct{}

type listHomeworkOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addHomeworkInput struct {
	Subject     string `json:"subject,omitempty" jsonschema:"subject, e.g. Math"`
	Description string `json:"description,omitempty" jsonschema:"what has to be done"`
	DueDate     string `json:"due_date,omitempty" jsonschema:"due date, conventionally YYYY-MM-DD; stored as given"`
	Priority    string `json:"priority,omitempty" jsonschema:"one of Critical, This Week, Long-term, Extra Credit, Fun Project; other values are stored and shown gray"`
}

type addHomeworkOutput struct {
	Message string     `json:"message"`
	Task    taskOutput `json:"task"`
}

type statsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type statsOutput struct {
	TasksAdded      int            `json:"tasks_added"`
	TasksByPriority map[string]int `json:"tasks_by_priority"`
	ViewsOpened     int            `json:"views_opened"`
	InvalidChoices  int            `json:"invalid_choices"`
	EventCount      int            `json:"event_count"`
	OldestEvent     string         `json:"oldest_event,omitempty"`
	NewestEvent     string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_homework",
		Description: "List every stored homework task in file order, with the card color for its priority.",
	}, s.handleListHomework)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_homework",
		Description: "Append a homework task. All fields are free text and stored as given; the log timestamp is set by the server.",
	}, s.handleAddHomework)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "homework_stats",
		Description: "Get usage numbers from the event log: tasks added (by priority), card views opened, invalid menu choices.",
	}, s.handleStats)
}

// --- Tool handlers ---

func (s *Server) handleListHomework(_ context.Context, _ *gomcp.CallToolRequest, _ listHomeworkInput) (*gomcp.CallToolResult, listHomeworkOutput, error) {
	tasks, err := s.store.ReadAll()
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listHomeworkOutput{Tasks: []taskOutput{}}, nil
	}

	out := listHomeworkOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddHomework(_ context.Context, _ *gomcp.CallToolRequest, input addHomeworkInput) (*gomcp.CallToolResult, addHomeworkOutput, error) {
	task := models.NewTask(input.Subject, input.Description, input.DueDate, models.Priority(input.Priority), s.now())
	if err := s.store.Append(task); err != nil {
		return errorResult(fmt.Sprintf("saving task: %s", err)), addHomeworkOutput{}, nil
	}

	// The task is already stored, so a failed event write is only logged.
	if err := observability.Emit(s.events, observability.Event{
		Type:    observability.EventTaskAdded,
		Message: "task added",
		Data:    map[string]any{"subject": task.Subject, "priority": string(task.Priority), "source": "mcp"},
	}); err != nil {
		s.logger.Warn("recording event", zap.String("type", observability.EventTaskAdded), zap.Error(err))
	}

	return nil, addHomeworkOutput{
		Message: "Task added successfully!",
		Task:    taskToOutput(task),
	}, nil
}

func (s *Server) handleStats(_ context.Context, _ *gomcp.CallToolRequest, input statsInput) (*gomcp.CallToolResult, statsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyStatsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := observability.ParseSince(sinceStr, s.now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyStatsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyStatsOutput(), nil
	}

	out := statsOutput{
		TasksAdded:      metrics.TasksAdded,
		TasksByPriority: metrics.TasksByPriority,
		ViewsOpened:     metrics.ViewsOpened,
		InvalidChoices:  metrics.InvalidChoices,
		EventCount:      metrics.EventCount,
	}
	if out.TasksByPriority == nil {
		out.TasksByPriority = make(map[string]int)
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		Subject:     t.Subject,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		LoggedAt:    t.LoggedAt,
		Color:       presenter.PriorityColor(t.Priority).Hex(),
	}
}

func emptyStatsOutput() statsOutput {
	return statsOutput{TasksByPriority: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
