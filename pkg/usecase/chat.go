package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

//go:embed prompt/agent_system.md
var agentSystemPromptTmpl string

var agentSystemPrompt = template.Must(template.New("agent_system").Parse(agentSystemPromptTmpl))

// greetingWords are messages answered with the canned greeting when the
// whole message is just a salutation.
var greetingWords = map[string]bool{
	"halo":             true,
	"hai":              true,
	"hi":               true,
	"hello":            true,
	"assalamualaikum":  true,
	"assalamu'alaikum": true,
	"salam":            true,
}

var helpWords = map[string]bool{
	"help":    true,
	"menu":    true,
	"bantuan": true,
}

// Chat processes one user message end to end and always returns an
// answer with text: a canned reply for special commands, a grounded or
// degraded agent answer, or the apologetic fallback when the agent fails.
func (uc *UseCases) Chat(ctx context.Context, userID, text string) (*model.Answer, error) {
	unlock := uc.lockUser(userID)
	defer unlock()

	logger := logging.From(ctx)
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return &model.Answer{Text: uc.persona.Empty}, nil
	}

	if canned := uc.specialCommand(ctx, userID, trimmed); canned != nil {
		return canned, nil
	}

	history, err := uc.repo.Conversation().History(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load conversation history",
			goerr.V("user_id", userID))
	}

	if err := uc.repo.Conversation().Append(ctx, userID, &model.Turn{
		Role:    model.RoleUser,
		Content: trimmed,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to record user turn",
			goerr.V("user_id", userID))
	}

	// Tool invocations land in history between the user turn and the
	// assistant turn.
	observer := func(ctx context.Context, call *model.ToolCall) {
		if err := uc.repo.Conversation().Append(ctx, userID, &model.Turn{
			Role:     model.RoleTool,
			Content:  call.Name,
			ToolCall: call,
		}); err != nil {
			logger.Warn("failed to record tool turn", logging.ErrAttr(err))
		}
	}

	answerer := agent.New(uc.llm, uc.tools,
		agent.WithSystemPrompt(uc.buildSystemPrompt(history)),
		agent.WithLoopLimit(uc.loopLimit),
		agent.WithToolObserver(observer),
	)

	answer, err := answerer.Execute(ctx, trimmed)
	if err != nil {
		// The user still gets a reply; the failure goes to the log
		logger.Error("agent execution failed",
			"user_id", userID,
			logging.ErrAttr(err),
		)
		answer = &model.Answer{Text: uc.persona.Fallback, Degraded: true}
	}

	if err := uc.repo.Conversation().Append(ctx, userID, &model.Turn{
		Role:    model.RoleAssistant,
		Content: answer.Text,
	}); err != nil {
		logger.Warn("failed to record assistant turn", logging.ErrAttr(err))
	}

	return answer, nil
}

// specialCommand returns a canned answer for greeting, help and reset
// messages, or nil when the message is a real question.
func (uc *UseCases) specialCommand(ctx context.Context, userID, text string) *model.Answer {
	word := strings.ToLower(strings.Trim(text, " .,!?"))

	switch {
	case greetingWords[word]:
		return &model.Answer{Text: uc.persona.Greeting}
	case helpWords[word]:
		return &model.Answer{Text: uc.persona.Help}
	case word == "reset":
		if err := uc.repo.Conversation().Reset(ctx, userID); err != nil {
			logging.From(ctx).Warn("failed to reset conversation",
				"user_id", userID, logging.ErrAttr(err))
			return &model.Answer{Text: uc.persona.Fallback, Degraded: true}
		}
		return &model.Answer{Text: uc.persona.Reset}
	}
	return nil
}

type promptTurn struct {
	Role    string
	Content string
}

type agentPromptData struct {
	Turns []promptTurn
}

func (uc *UseCases) buildSystemPrompt(history []*model.Turn) string {
	data := agentPromptData{}
	for _, turn := range history {
		// Tool turns stay out of the prompt; their results are already
		// reflected in the assistant turns.
		if turn.Role == model.RoleTool {
			continue
		}
		data.Turns = append(data.Turns, promptTurn{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	var buf bytes.Buffer
	if err := agentSystemPrompt.Execute(&buf, data); err != nil {
		return "Kamu adalah asisten edukasi fiqih empat mazhab. Jawab hanya berdasarkan hasil tool."
	}
	return buf.String()
}
