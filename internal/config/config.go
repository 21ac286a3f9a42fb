// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/pkg/models"
)

// Config is the merged configuration for one run. It is assembled from
// three sources with fixed precedence, lowest to highest: the triggering
// event payload, the optional JSON configuration file, and environment
// overrides.
type Config struct {
	// Action is the GitHub event action being processed.
	Action string

	// Issue, Comment, Label, Assignee and Repository are copied from
	// the triggering event as applicable.
	Issue      *models.Issue
	Comment    *models.Comment
	Label      *models.Label
	Assignee   *models.User
	Repository *models.Repository

	// ClosedAt is the close timestamp from the event, when present.
	ClosedAt string

	// Schedule triggers the reverse-sync pass after the event action.
	Schedule bool

	// LogLevel is the effective log verbosity for this run.
	LogLevel string

	ADO    ADOConfig
	GitHub GitHubConfig
}

// ADOConfig holds the Azure DevOps connection and mapping settings.
type ADOConfig struct {
	Organization  string
	Project       string
	WorkItemType  string
	States        map[string]string
	AreaPath      string
	IterationPath string
	BypassRules   bool
	AutoCreate    bool
	AssignedTo    string
	Mappings      Mappings
	Token         string

	// OrgURL is always derived from Organization, never supplied by a
	// caller.
	OrgURL string
}

// Mappings translates GitHub identities to ADO identities.
type Mappings struct {
	// Handles maps a GitHub login to an ADO user name.
	Handles map[string]string
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token string

	// Repository is the "owner/repo" of the triggering workflow, used
	// by the reverse-sync query when the event carries no repository.
	Repository string
}

// Resolve builds the merged configuration for a run. It never fails:
// an unreadable or invalid configuration file contributes nothing, and
// missing values surface later through Validate. No network calls are
// made here.
func Resolve(payload *models.EventPayload, configFile string) *Config {
	cfg := fromPayload(payload)

	env := bindEnv()

	if configFile == "" {
		configFile = env.GetString("config_file")
	}
	applyFile(cfg, configFile)
	applyEnv(cfg, env)

	// OrgURL is recomputed after every merge so it always tracks the
	// final organization value.
	cfg.ADO.OrgURL = fmt.Sprintf("https://dev.azure.com/%s", cfg.ADO.Organization)

	if cfg.LogLevel == "" {
		cfg.LogLevel = string(logging.LevelDebug)
	}

	return cfg
}

// fromPayload seeds the configuration from the triggering event.
func fromPayload(payload *models.EventPayload) *Config {
	cfg := &Config{}
	if payload == nil {
		return cfg
	}

	cfg.Action = payload.Action
	cfg.Issue = payload.Issue
	cfg.Comment = payload.Comment
	cfg.Label = payload.Label
	cfg.Assignee = payload.Assignee
	cfg.Repository = payload.Repository
	cfg.Schedule = payload.Schedule

	cfg.ClosedAt = payload.ClosedAt
	if cfg.ClosedAt == "" && payload.Issue != nil {
		cfg.ClosedAt = payload.Issue.ClosedAt
	}

	return cfg
}

// applyFile overlays values from the JSON configuration file. Load
// failures are logged and swallowed so a missing or malformed file never
// fails the run.
func applyFile(cfg *Config, path string) {
	if path == "" {
		return
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		logging.Info("json configuration file not loaded", "path", path, "error", err)
		return
	}
	logging.Info("json configuration file loaded", "path", path)

	setString(&cfg.ADO.Organization, v, "ado.organization")
	setString(&cfg.ADO.Project, v, "ado.project")
	setString(&cfg.ADO.WorkItemType, v, "ado.wit")
	setString(&cfg.ADO.AreaPath, v, "ado.areaPath")
	setString(&cfg.ADO.IterationPath, v, "ado.iterationPath")
	setString(&cfg.ADO.AssignedTo, v, "ado.assignedTo")
	setString(&cfg.ADO.Token, v, "ado.token")
	setString(&cfg.GitHub.Token, v, "github.token")
	setString(&cfg.LogLevel, v, "log_level")

	if v.IsSet("ado.bypassRules") {
		cfg.ADO.BypassRules = v.GetBool("ado.bypassRules")
	}
	if v.IsSet("ado.autoCreate") {
		cfg.ADO.AutoCreate = v.GetBool("ado.autoCreate")
	}
	if states := v.GetStringMapString("ado.states"); len(states) > 0 {
		cfg.ADO.States = states
	}
	if handles := v.GetStringMapString("ado.mappings.handles"); len(handles) > 0 {
		cfg.ADO.Mappings.Handles = handles
	}
}

// bindEnv wires the environment override surface. Both the lowercase
// workflow-input spelling and the conventional uppercase name are
// accepted for each key.
func bindEnv() *viper.Viper {
	v := viper.New()

	v.BindEnv("ado_token", "ADO_TOKEN", "ado_token")
	v.BindEnv("github_token", "GITHUB_TOKEN", "github_token")
	v.BindEnv("log_level", "LOG_LEVEL", "log_level")
	v.BindEnv("config_file", "CONFIG_FILE", "config_file")
	v.BindEnv("ado_organization", "ADO_ORGANIZATION", "ado_organization")
	v.BindEnv("ado_project", "ADO_PROJECT", "ado_project")
	v.BindEnv("ado_wit", "ADO_WIT", "ado_wit")
	v.BindEnv("github_repository", "GITHUB_REPOSITORY")

	return v
}

// applyEnv overlays environment values; environment wins on collision.
func applyEnv(cfg *Config, v *viper.Viper) {
	setString(&cfg.ADO.Organization, v, "ado_organization")
	setString(&cfg.ADO.Project, v, "ado_project")
	setString(&cfg.ADO.WorkItemType, v, "ado_wit")
	setString(&cfg.LogLevel, v, "log_level")
	setString(&cfg.GitHub.Repository, v, "github_repository")

	// Top-level token overrides are copied into their sections.
	setString(&cfg.ADO.Token, v, "ado_token")
	setString(&cfg.GitHub.Token, v, "github_token")
}

// setString assigns the viper value to dst when it is non-empty.
func setString(dst *string, v *viper.Viper, key string) {
	if s := v.GetString(key); s != "" {
		*dst = s
	}
}

// RepoFullName returns the repository the run concerns: the event's
// repository when present, otherwise the workflow repository from the
// environment.
func (c *Config) RepoFullName() string {
	if c.Repository != nil && c.Repository.FullName != "" {
		return c.Repository.FullName
	}
	return c.GitHub.Repository
}

// Validate ensures the settings an ADO-dependent operation needs are
// present. It is called before any action or reconcile pass runs, not
// during Resolve, so that resolution itself can never fail.
func (c *Config) Validate() error {
	var missingVars []string

	if c.ADO.Organization == "" {
		missingVars = append(missingVars, "ado.organization")
	}
	if c.ADO.Project == "" {
		missingVars = append(missingVars, "ado.project")
	}
	if c.ADO.WorkItemType == "" {
		missingVars = append(missingVars, "ado.wit")
	}
	if c.ADO.Token == "" {
		missingVars = append(missingVars, "ado.token")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required configuration: %v", missingVars)
	}

	return nil
}
