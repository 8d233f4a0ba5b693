package mcp

import (
	"context"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"flowmine/internal/config"
	"flowmine/internal/eventlog"
	"flowmine/internal/ingest"
	"flowmine/internal/stats"
)

// DatasetTools owns the dataset lifecycle: loading, listing, dropping and
// case-level access.
type DatasetTools struct {
	Store *eventlog.LogStore
	Cfg   *config.AppConfig
}

type LoadDatasetInput struct {
	Path           string `json:"path" jsonschema:"Path to the CSV or XLSX event log file"`
	Name           string `json:"name,omitempty" jsonschema:"Display name for the dataset (defaults to the file name)"`
	CaseColumn     string `json:"case_column,omitempty" jsonschema:"Column holding the case id (default CASE ID)"`
	ActivityColumn string `json:"activity_column,omitempty" jsonschema:"Column holding the activity label (default EVENT)"`
	StartColumn    string `json:"start_column,omitempty" jsonschema:"Column holding the start timestamp (default START TIME)"`
	EndColumn      string `json:"end_column,omitempty" jsonschema:"Column holding the end timestamp (default END TIME)"`
	TeamColumn     string `json:"team_column,omitempty" jsonschema:"Column holding the team dimension (default TEAM)"`
	SystemColumn   string `json:"system_column,omitempty" jsonschema:"Column holding the system dimension (default SYSTEM)"`
	UserColumn     string `json:"user_column,omitempty" jsonschema:"Column holding the user dimension (default USER)"`
}

func (t *DatasetTools) LoadDataset(_ context.Context, _ *mcp.CallToolRequest, in LoadDatasetInput) (*mcp.CallToolResult, any, error) {
	if in.Path == "" {
		return toolError("path is required"), nil, nil
	}

	table, err := ingest.ReadFile(in.Path)
	if err != nil {
		return toolError("Failed to read %s: %v", in.Path, err), nil, nil
	}

	opts := eventlog.DefaultOptions()
	overrideColumn(&opts.CaseColumn, in.CaseColumn)
	overrideColumn(&opts.ActivityColumn, in.ActivityColumn)
	overrideColumn(&opts.StartColumn, in.StartColumn)
	overrideColumn(&opts.EndColumn, in.EndColumn)
	overrideColumn(&opts.TeamColumn, in.TeamColumn)
	overrideColumn(&opts.SystemColumn, in.SystemColumn)
	overrideColumn(&opts.UserColumn, in.UserColumn)

	rows, err := eventlog.Normalize(table.Header, table.Records, opts)
	if err != nil {
		return toolError("Failed to normalize %s: %v", in.Path, err), nil, nil
	}
	if len(rows) == 0 {
		return toolError("No usable events found in %s. Check the column mappings and timestamp formats.", in.Path), nil, nil
	}

	name := in.Name
	if name == "" {
		name = filepath.Base(in.Path)
	}

	info := t.Store.Put(name, rows)
	t.persist(info.ID)

	log.Info().Str("tool", "load_dataset").Str("dataset", info.ID).Int("rows", info.RowCount).Int("cases", info.Cases).Msg("Dataset loaded")
	return toolJSON(info)
}

func (t *DatasetTools) ListDatasets(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	datasets := t.Store.List()
	if len(datasets) == 0 {
		return toolText("No datasets loaded. Use load_dataset to import an event log."), nil, nil
	}
	return toolJSON(datasets)
}

type DropDatasetInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to remove"`
}

func (t *DatasetTools) DropDataset(_ context.Context, _ *mcp.CallToolRequest, in DropDatasetInput) (*mcp.CallToolResult, any, error) {
	if in.DatasetID == "" {
		return toolError("dataset_id is required"), nil, nil
	}
	if !t.Store.Delete(in.DatasetID) {
		return toolError("Unknown dataset %q. Use list_datasets to see what is loaded.", in.DatasetID), nil, nil
	}

	if t.Cfg != nil && t.Cfg.CacheDir != "" {
		if err := eventlog.DeleteCache(t.Cfg.CacheDir, in.DatasetID); err != nil {
			log.Warn().Err(err).Str("dataset", in.DatasetID).Msg("Failed to delete dataset cache files")
		}
	}

	log.Info().Str("tool", "drop_dataset").Str("dataset", in.DatasetID).Msg("Dataset dropped")
	return toolText("Dataset " + in.DatasetID + " dropped."), nil, nil
}

type GetCaseInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset holding the case"`
	CaseID    string `json:"case_id" jsonschema:"Case to fetch"`
}

func (t *DatasetTools) GetCase(_ context.Context, _ *mcp.CallToolRequest, in GetCaseInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}
	if in.CaseID == "" {
		return toolError("case_id is required"), nil, nil
	}

	c, ok := eventlog.CaseByID(rows, in.CaseID)
	if !ok {
		return toolError("Case %q not found in dataset %q.", in.CaseID, in.DatasetID), nil, nil
	}
	return toolJSON(c)
}

type FilterCasesInput struct {
	DatasetID          string   `json:"dataset_id" jsonschema:"Dataset to filter"`
	Name               string   `json:"name,omitempty" jsonschema:"Name for the filtered dataset (defaults to the parent name plus (filtered))"`
	MinDurationMinutes *float64 `json:"min_duration_minutes,omitempty" jsonschema:"Keep cases lasting at least this many minutes"`
	MaxDurationMinutes *float64 `json:"max_duration_minutes,omitempty" jsonschema:"Keep cases lasting at most this many minutes"`
	MinEvents          *int     `json:"min_events,omitempty" jsonschema:"Keep cases with at least this many events"`
	MaxEvents          *int     `json:"max_events,omitempty" jsonschema:"Keep cases with at most this many events"`
	From               string   `json:"from,omitempty" jsonschema:"Keep cases starting at or after this timestamp"`
	To                 string   `json:"to,omitempty" jsonschema:"Keep cases starting at or before this timestamp"`
	Team               string   `json:"team,omitempty" jsonschema:"Keep cases with at least one event from this team"`
	System             string   `json:"system,omitempty" jsonschema:"Keep cases with at least one event from this system"`
	User               string   `json:"user,omitempty" jsonschema:"Keep cases with at least one event from this user"`
}

func (t *DatasetTools) FilterCases(_ context.Context, _ *mcp.CallToolRequest, in FilterCasesInput) (*mcp.CallToolResult, any, error) {
	if in.DatasetID == "" {
		return toolError("dataset_id is required"), nil, nil
	}
	parent, ok := t.Store.Get(in.DatasetID)
	if !ok {
		return toolError("Unknown dataset %q. Use list_datasets to see what is loaded.", in.DatasetID), nil, nil
	}

	filter := stats.CaseFilter{
		MinDurationMinutes: in.MinDurationMinutes,
		MaxDurationMinutes: in.MaxDurationMinutes,
		MinEvents:          in.MinEvents,
		MaxEvents:          in.MaxEvents,
		Team:               in.Team,
		System:             in.System,
		User:               in.User,
	}
	var errRes *mcp.CallToolResult
	if filter.From, errRes = parseWindowBound(in.From, "from"); errRes != nil {
		return errRes, nil, nil
	}
	if filter.To, errRes = parseWindowBound(in.To, "to"); errRes != nil {
		return errRes, nil, nil
	}

	filtered := stats.FilterCases(parent.Rows, filter)
	if len(filtered) == 0 {
		return toolText("No cases matched the filter; nothing was stored."), nil, nil
	}

	name := in.Name
	if name == "" {
		name = parent.Name + " (filtered)"
	}
	info := t.Store.Put(name, filtered)
	t.persist(info.ID)

	log.Info().Str("tool", "filter_cases").Str("parent", in.DatasetID).Str("dataset", info.ID).Int("cases", info.Cases).Msg("Filtered dataset stored")
	return toolJSON(map[string]any{
		"dataset":        info,
		"parent_dataset": in.DatasetID,
		"_guidance": []string{
			"The filtered cases were stored as a new dataset. Pass its id to the analysis tools to work on the subset.",
		},
	})
}

func (t *DatasetTools) persist(id string) {
	if t.Cfg == nil || t.Cfg.CacheDir == "" {
		return
	}
	if err := t.Store.Save(t.Cfg.CacheDir, id); err != nil {
		log.Warn().Err(err).Str("dataset", id).Msg("Failed to persist dataset cache")
	}
}

func overrideColumn(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func parseWindowBound(s, field string) (*time.Time, *mcp.CallToolResult) {
	if s == "" {
		return nil, nil
	}
	ts, ok := eventlog.ParseTimestamp(s)
	if !ok {
		return nil, toolError("Could not parse %s timestamp %q.", field, s)
	}
	return &ts, nil
}
