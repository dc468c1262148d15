package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

const (
	toolListTables    = "list_tables"
	toolDescribeTable = "describe_table"
	toolRunQuery      = "run_query"
)

func toolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        toolListTables,
			Desc:        "List the tables in the database. Call this first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: toolDescribeTable,
			Desc: "Return the columns of one or more tables. Make sure the tables exist by calling list_tables first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"tables": {
					Type:     schema.String,
					Desc:     "Comma separated list of table names, for example: table1, table2",
					Required: true,
				},
			}),
		},
		{
			Name: toolRunQuery,
			Desc: "Run a single read-only SQL query and return the rows. On error, rewrite the query and try again.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "A syntactically correct read-only SQL query",
					Required: true,
				},
			}),
		},
	}
}

type toolArgs struct {
	Tables string `json:"tables"`
	Query  string `json:"query"`
}

func parseToolArgs(raw string) (toolArgs, error) {
	var args toolArgs
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}

func (a *Agent) runTool(ctx context.Context, db Database, name, rawArgs string) (string, error) {
	args, err := parseToolArgs(rawArgs)
	if err != nil {
		return "", err
	}

	switch name {
	case toolListTables:
		tables, err := db.ListTables(ctx)
		if err != nil {
			return "", err
		}
		if len(tables) == 0 {
			return "The database has no tables.", nil
		}
		return strings.Join(tables, ", "), nil

	case toolDescribeTable:
		var parts []string
		for _, table := range strings.Split(args.Tables, ",") {
			table = strings.TrimSpace(table)
			if table == "" {
				continue
			}
			columns, err := db.DescribeTable(ctx, table)
			if err != nil {
				return "", err
			}
			parts = append(parts, FormatColumns(table, columns))
		}
		if len(parts) == 0 {
			return "", errors.New("no table names given")
		}
		return strings.Join(parts, "\n\n"), nil

	case toolRunQuery:
		if strings.TrimSpace(args.Query) == "" {
			return "", errors.New("no query given")
		}
		result, err := db.ExecuteQuery(ctx, args.Query, a.rowLimit)
		if err != nil {
			return "", err
		}
		return FormatResult(result), nil

	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}
