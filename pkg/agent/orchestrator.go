package agent

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

// DefaultLoopLimit bounds the decide-call-observe iterations of one
// exchange. A model that keeps requesting tools past this bound gets cut
// off and asked to answer with what it has.
const DefaultLoopLimit = 8

// ToolObserver is called after every tool invocation with the call record
type ToolObserver func(ctx context.Context, call *model.ToolCall)

// Agent runs the tool-calling loop for one exchange: the model decides,
// requested tools run, their results go back as observations, and the loop
// ends when the model answers in text.
type Agent struct {
	llm          gollem.LLMClient
	tools        []gollem.Tool
	systemPrompt string
	loopLimit    int
	observer     ToolObserver
}

type Option func(*Agent)

// WithSystemPrompt sets the persona and grounding instructions
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithLoopLimit overrides the iteration bound
func WithLoopLimit(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.loopLimit = n
		}
	}
}

// WithToolObserver registers a callback invoked after each tool call
func WithToolObserver(fn ToolObserver) Option {
	return func(a *Agent) {
		a.observer = fn
	}
}

func New(llm gollem.LLMClient, tools []gollem.Tool, opts ...Option) *Agent {
	agent := &Agent{
		llm:       llm,
		tools:     tools,
		loopLimit: DefaultLoopLimit,
	}
	for _, opt := range opts {
		opt(agent)
	}
	return agent
}

// Execute answers one user prompt. The returned answer always carries
// text: a grounded answer when the model finishes inside the loop bound,
// or a degraded best-effort answer assembled from what it gathered when
// the bound is hit.
func (a *Agent) Execute(ctx context.Context, prompt string) (*model.Answer, error) {
	sessionID := uuid.Must(uuid.NewV7()).String()
	logger := logging.From(ctx).With("session_id", sessionID)

	session, err := a.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(a.systemPrompt),
		gollem.WithSessionTools(a.tools...),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	catalog := make(map[string]gollem.Tool, len(a.tools))
	for _, t := range a.tools {
		catalog[t.Spec().Name] = t
	}

	answer := &model.Answer{}
	inputs := []gollem.Input{gollem.Text(prompt)}

	for iteration := 0; iteration < a.loopLimit; iteration++ {
		resp, err := session.Generate(ctx, inputs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate content",
				goerr.V("iteration", iteration))
		}

		if len(resp.FunctionCalls) == 0 {
			answer.Text = strings.TrimSpace(strings.Join(resp.Texts, "\n"))
			if answer.Text == "" {
				return nil, goerr.New("model returned neither text nor tool calls",
					goerr.V("iteration", iteration))
			}
			return answer, nil
		}

		inputs = inputs[:0]
		for _, call := range resp.FunctionCalls {
			result, runErr := a.runTool(ctx, catalog, call)

			record := &model.ToolCall{
				Name:   call.Name,
				Args:   call.Arguments,
				Failed: runErr != nil,
			}
			if runErr != nil {
				record.Result = runErr.Error()
				logger.Warn("tool call failed",
					"tool", call.Name,
					logging.ErrAttr(runErr),
				)
			} else {
				record.Result = compactResult(result)
			}
			if a.observer != nil {
				a.observer(ctx, record)
			}
			answer.ToolsUsed = append(answer.ToolsUsed, call.Name)

			// Tool failures go back to the model as observations so it
			// can correct the call or answer without the tool.
			inputs = append(inputs, gollem.FunctionResponse{
				ID:    call.ID,
				Name:  call.Name,
				Data:  result,
				Error: runErr,
			})
		}
	}

	logger.Warn("tool loop limit reached, asking for a best-effort answer",
		"loop_limit", a.loopLimit,
		"tools_used", answer.ToolsUsed,
	)

	// One last turn without honoring further tool requests
	inputs = append(inputs,
		gollem.Text("Jawab sekarang berdasarkan informasi yang sudah terkumpul. Jangan memanggil tool lagi."))
	resp, err := session.Generate(ctx, inputs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate final answer",
			goerr.T(types.ErrTagLoopLimit))
	}

	answer.Degraded = true
	answer.Text = strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if answer.Text == "" {
		answer.Text = "Mohon maaf, saya belum dapat menyusun jawaban lengkap untuk pertanyaan ini. Silakan coba dengan pertanyaan yang lebih spesifik."
	}
	return answer, nil
}

// compactResult serializes a tool result for the conversation record.
// Oversized results are cut; the full data still reaches the model via
// the function response.
func compactResult(result map[string]any) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return ""
	}
	const maxRecorded = 2048
	if len(raw) > maxRecorded {
		limit := maxRecorded
		for limit > 0 && !utf8.RuneStart(raw[limit]) {
			limit--
		}
		return string(raw[:limit])
	}
	return string(raw)
}

func (a *Agent) runTool(ctx context.Context, catalog map[string]gollem.Tool, call *gollem.FunctionCall) (map[string]any, error) {
	t, ok := catalog[call.Name]
	if !ok {
		return nil, goerr.New("unknown tool requested",
			goerr.V("tool", call.Name),
			goerr.T(types.ErrTagUnknownTool))
	}
	return t.Run(ctx, call.Arguments)
}
