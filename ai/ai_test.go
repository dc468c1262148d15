package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedModel struct {
	mu      sync.Mutex
	replies []*schema.Message
	errs    []error
	inputs  [][]*schema.Message
	tools   []*schema.ToolInfo
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs = append(m.inputs, append([]*schema.Message(nil), input...))
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(m.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *scriptedModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.tools = tools
	return m, nil
}

func factoryFor(m *scriptedModel) ModelFactory {
	return func(context.Context, string) (model.ToolCallingChatModel, error) {
		return m, nil
	}
}

type fakeDatabase struct {
	tables  []string
	columns map[string][]models.Column
	result  *models.SQLResult
	queries []string
	limits  []int
	err     error
}

func (f *fakeDatabase) Dialect() string { return "sqlite" }

func (f *fakeDatabase) ListTables(context.Context) ([]string, error) {
	return f.tables, nil
}

func (f *fakeDatabase) DescribeTable(_ context.Context, table string) ([]models.Column, error) {
	cols, ok := f.columns[table]
	if !ok {
		return nil, errors.New("table " + table + " not found")
	}
	return cols, nil
}

func (f *fakeDatabase) ExecuteQuery(_ context.Context, query string, limit int) (*models.SQLResult, error) {
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return &models.SQLResult{Error: f.err.Error()}, f.err
	}
	return f.result, nil
}

func toolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:       id,
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}
}

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) OnThought(_ context.Context, text string) {
	r.events = append(r.events, "thought:"+text)
}

func (r *recordingObserver) OnToolStart(_ context.Context, tool, _ string) {
	r.events = append(r.events, "start:"+tool)
}

func (r *recordingObserver) OnToolEnd(_ context.Context, tool, _ string, err error) {
	if err != nil {
		r.events = append(r.events, "error:"+tool)
		return
	}
	r.events = append(r.events, "end:"+tool)
}

func (r *recordingObserver) OnAnswer(_ context.Context, answer string) {
	r.events = append(r.events, "answer:"+answer)
}

func studentDB() *fakeDatabase {
	return &fakeDatabase{
		tables: []string{"STUDENT"},
		columns: map[string][]models.Column{
			"STUDENT": {
				{Name: "NAME", Type: "VARCHAR(25)", Nullable: true},
				{Name: "MARKS", Type: "INT", Nullable: true},
			},
		},
		result: &models.SQLResult{
			Columns: []string{"COUNT(*)"},
			Rows:    [][]interface{}{{int64(5)}},
		},
	}
}

func TestAskRunsToolLoop(t *testing.T) {
	m := &scriptedModel{
		replies: []*schema.Message{
			schema.AssistantMessage("Let me look at the tables.", []schema.ToolCall{toolCall("c1", toolListTables, "{}")}),
			schema.AssistantMessage("", []schema.ToolCall{toolCall("c2", toolDescribeTable, `{"tables":"STUDENT"}`)}),
			schema.AssistantMessage("", []schema.ToolCall{toolCall("c3", toolRunQuery, `{"query":"SELECT COUNT(*) FROM STUDENT"}`)}),
			schema.AssistantMessage("There are 5 students.", nil),
		},
	}
	db := studentDB()
	obs := &recordingObserver{}

	agent := New(factoryFor(m), Options{RowLimit: 50})
	answer, err := agent.Ask(context.Background(), "key", db, "How many students are there?", obs)
	require.NoError(t, err)
	assert.Equal(t, "There are 5 students.", answer)

	assert.Len(t, m.tools, 3)
	assert.Equal(t, []string{"SELECT COUNT(*) FROM STUDENT"}, db.queries)
	assert.Equal(t, []int{50}, db.limits)
	assert.Equal(t, []string{
		"thought:Let me look at the tables.",
		"start:list_tables", "end:list_tables",
		"start:describe_table", "end:describe_table",
		"start:run_query", "end:run_query",
		"answer:There are 5 students.",
	}, obs.events)

	// Last request carries system, user, then assistant/tool pairs.
	last := m.inputs[len(m.inputs)-1]
	require.Len(t, last, 8)
	assert.Equal(t, schema.System, last[0].Role)
	assert.Contains(t, last[0].Content, "SQLite")
	assert.Equal(t, schema.User, last[1].Role)
	assert.Equal(t, schema.Tool, last[3].Role)
	assert.Equal(t, "c1", last[3].ToolCallID)
	assert.Equal(t, "STUDENT", last[3].Content)
	assert.Contains(t, last[5].Content, "NAME VARCHAR(25) NULL")
	assert.Equal(t, "COUNT(*)\n5", last[7].Content)
}

func TestAskFeedsToolErrorsBack(t *testing.T) {
	m := &scriptedModel{
		replies: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("c1", toolRunQuery, `{"query":"DELETE FROM STUDENT"}`)}),
			schema.AssistantMessage("I can only read data.", nil),
		},
	}
	db := studentDB()
	db.err = errors.New("only read-only queries are allowed")
	obs := &recordingObserver{}

	answer, err := New(factoryFor(m), Options{}).Ask(context.Background(), "key", db, "Delete everyone", obs)
	require.NoError(t, err)
	assert.Equal(t, "I can only read data.", answer)
	assert.Contains(t, obs.events, "error:run_query")

	last := m.inputs[1]
	assert.Equal(t, "Error: only read-only queries are allowed", last[len(last)-1].Content)
}

func TestAskUnknownToolAndBadArguments(t *testing.T) {
	m := &scriptedModel{
		replies: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{
				toolCall("c1", "drop_everything", "{}"),
				toolCall("c2", toolDescribeTable, `{"tables":`),
			}),
			schema.AssistantMessage("done", nil),
		},
	}

	_, err := New(factoryFor(m), Options{}).Ask(context.Background(), "key", studentDB(), "q")
	require.NoError(t, err)

	last := m.inputs[1]
	assert.Contains(t, last[len(last)-2].Content, `unknown tool "drop_everything"`)
	assert.Contains(t, last[len(last)-1].Content, "invalid tool arguments")
}

func TestAskRequiresAPIKey(t *testing.T) {
	m := &scriptedModel{}
	_, err := New(factoryFor(m), Options{}).Ask(context.Background(), "  ", studentDB(), "q")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, m.inputs)
}

func TestAskStepBudget(t *testing.T) {
	call := schema.AssistantMessage("", []schema.ToolCall{toolCall("c", toolListTables, "")})
	m := &scriptedModel{replies: []*schema.Message{call, call, call}}

	_, err := New(factoryFor(m), Options{MaxSteps: 2}).Ask(context.Background(), "key", studentDB(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Len(t, m.inputs, 2)
}

func TestAskEmptyAnswer(t *testing.T) {
	m := &scriptedModel{replies: []*schema.Message{schema.AssistantMessage("  ", nil)}}
	_, err := New(factoryFor(m), Options{}).Ask(context.Background(), "key", studentDB(), "q")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestGenerateRetriesTransientErrors(t *testing.T) {
	m := &scriptedModel{
		errs:    []error{errors.New("error, status code: 429, message: rate limit reached"), nil},
		replies: []*schema.Message{schema.AssistantMessage("ok", nil)},
	}
	agent := New(factoryFor(m), Options{MaxRetries: 2, BaseDelay: time.Millisecond})

	answer, err := agent.Ask(context.Background(), "key", studentDB(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Len(t, m.inputs, 2)
}

func TestGenerateDoesNotRetryPermanentErrors(t *testing.T) {
	m := &scriptedModel{
		errs: []error{errors.New("error, status code: 401, message: invalid api key")},
	}
	agent := New(factoryFor(m), Options{MaxRetries: 3, BaseDelay: time.Millisecond})

	_, err := agent.Ask(context.Background(), "key", studentDB(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Len(t, m.inputs, 1)
}

func TestModelFactoryError(t *testing.T) {
	factory := func(context.Context, string) (model.ToolCallingChatModel, error) {
		return nil, errors.New("bad base url")
	}
	_, err := New(factory, Options{}).Ask(context.Background(), "key", studentDB(), "q")
	assert.EqualError(t, err, "failed to create chat model: bad base url")
}

func TestRateLimitSpacesRequests(t *testing.T) {
	agent := New(nil, Options{MinRequestInterval: 30 * time.Millisecond})
	start := time.Now()
	agent.rateLimit()
	agent.rateLimit()
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestBuildSystemPrompt(t *testing.T) {
	p := BuildSystemPrompt("sqlserver", 25)
	assert.Contains(t, p, "T-SQL (SQL Server)")
	assert.Contains(t, p, "at most 25")
	assert.Contains(t, p, "TOP instead of LIMIT")

	assert.Contains(t, BuildSystemPrompt("mysql", 0), "at most 10")
}

func TestFormatResult(t *testing.T) {
	out := FormatResult(&models.SQLResult{
		Columns:   []string{"NAME", "MARKS"},
		Rows:      [][]interface{}{{"Krish", int64(90)}, {"John", nil}},
		Truncated: true,
	})
	assert.Equal(t, "NAME\tMARKS\nKrish\t90\nJohn\tNULL\n(truncated to 2 rows)", out)

	assert.Equal(t, "NAME\n(no rows)", FormatResult(&models.SQLResult{Columns: []string{"NAME"}}))
	assert.Equal(t, "The query returned no columns.", FormatResult(nil))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10, "..."))
	// "é" is two bytes; cutting at 2 would split it.
	assert.Equal(t, "a...", Truncate("aéb", 2, "..."))
	assert.Equal(t, "aé...", Truncate("aébc", 3, "..."))
	assert.Equal(t, "…", Truncate("日本", 1, "…"))

	out := Truncate(strings.Repeat("日", 100), 50, "")
	assert.True(t, utf8.ValidString(out))
	assert.Len(t, out, 48)
}
