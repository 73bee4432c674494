package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved settings of one run.
type Config struct {
	Format              string
	Output              string
	IDs                 IDPolicy
	ShowImplementations bool
	Frontend            string
	Include             []string
	Exclude             []string

	Neo4jURI   string
	Neo4jUser  string
	Neo4jPass  string
	Neo4jClean bool

	SQLitePath string

	LogLevel string
	LogFile  string
}

const (
	FrontendDecl = "decl"
	FrontendGo   = "go"

	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// newViper sets up defaults and environment binding. Environment variables
// use the UMLGRAPH_ prefix, e.g. UMLGRAPH_NEO4J_PASS for neo4j.pass.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("UMLGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", FormatDOT)
	v.SetDefault("output", "")
	v.SetDefault("ids", string(IDsAuto))
	v.SetDefault("show-implementations", false)
	v.SetDefault("frontend", FrontendDecl)
	v.SetDefault("include", DefaultInclude)
	v.SetDefault("exclude", []string{})

	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.pass", "")
	v.SetDefault("neo4j.clean", false)

	v.SetDefault("sqlite.path", "umlgraph.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	return v
}

// readConfigFile loads configFile when given, otherwise the first
// umlgraph.yaml found in the working directory or the user config directory.
func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile == "" {
		candidates := []string{"umlgraph.yaml"}
		if dir, err := os.UserConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(dir, "umlgraph", "config.yaml"))
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				configFile = c
				break
			}
		}
	}
	if configFile == "" {
		return nil
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// loadConfig resolves and validates the settings held by v.
func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Format:              strings.ToLower(v.GetString("format")),
		Output:              v.GetString("output"),
		IDs:                 IDPolicy(strings.ToLower(v.GetString("ids"))),
		ShowImplementations: v.GetBool("show-implementations"),
		Frontend:            strings.ToLower(v.GetString("frontend")),
		Include:             v.GetStringSlice("include"),
		Exclude:             v.GetStringSlice("exclude"),
		Neo4jURI:            v.GetString("neo4j.uri"),
		Neo4jUser:           v.GetString("neo4j.user"),
		Neo4jPass:           v.GetString("neo4j.pass"),
		Neo4jClean:          v.GetBool("neo4j.clean"),
		SQLitePath:          v.GetString("sqlite.path"),
		LogLevel:            v.GetString("log.level"),
		LogFile:             v.GetString("log.file"),
	}

	switch cfg.Format {
	case FormatDOT, FormatSVG, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported format %q (want dot, svg or json)", cfg.Format)
	}
	switch cfg.IDs {
	case IDsAuto, IDsQualified, IDsPlain:
	default:
		return nil, fmt.Errorf("unsupported ids policy %q (want auto, qualified or plain)", cfg.IDs)
	}
	switch cfg.Frontend {
	case FrontendDecl, FrontendGo:
	default:
		return nil, fmt.Errorf("unsupported frontend %q (want decl or go)", cfg.Frontend)
	}
	return cfg, nil
}
