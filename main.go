package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *Config
	logger     *slog.Logger
	closeLog   func() error
}

func newApp() *app {
	return &app{v: newViper()}
}

// Close releases the log file, if any. It runs whether or not the command
// succeeded.
func (a *app) Close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "umlgraph",
		Short: "Infer UML class-diagram relationships between declarations",
		Long: `umlgraph groups struct, enum and trait declarations with their impl blocks,
infers composition, aggregation, dependency, association and realization
between them, and writes the deduplicated graph as DOT, SVG or JSON, or
loads it into Neo4j or SQLite.

Inputs are declaration files (YAML or JSON) written by an external parser,
or a Go module when --frontend=go.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./umlgraph.yaml)")
	pf.String("frontend", FrontendDecl, "input frontend: decl or go")
	pf.String("ids", string(IDsAuto), "node id policy: auto, qualified or plain")
	pf.Bool("show-implementations", false, "list trait-impl methods in node labels")
	pf.StringSlice("include", DefaultInclude, "glob patterns of declaration files to read")
	pf.StringSlice("exclude", nil, "glob patterns of declaration files to skip")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-file", "", "write logs to a rotated file instead of stderr")
	bind(a.v, pf.Lookup("frontend"), "frontend")
	bind(a.v, pf.Lookup("ids"), "ids")
	bind(a.v, pf.Lookup("show-implementations"), "show-implementations")
	bind(a.v, pf.Lookup("include"), "include")
	bind(a.v, pf.Lookup("exclude"), "exclude")
	bind(a.v, pf.Lookup("log-level"), "log.level")
	bind(a.v, pf.Lookup("log-file"), "log.file")

	root.AddCommand(a.renderCmd(), a.loadCmd(), a.storeCmd(), a.showCmd())
	return root
}

// commandKeys maps flags shared by several subcommands to their config
// keys. They are bound for the running command only, since a viper key
// holds one flag.
var commandKeys = []struct{ flag, key string }{
	{"format", "format"},
	{"output", "output"},
	{"db", "sqlite.path"},
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for _, k := range commandKeys {
		if f := cmd.Flags().Lookup(k.flag); f != nil {
			bind(a.v, f, k.key)
		}
	}
	if err := readConfigFile(a.v, a.configFile); err != nil {
		return err
	}
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	logger, closer := newLogger(cfg.LogLevel, cfg.LogFile)
	a.cfg, a.logger, a.closeLog = cfg, logger, closer.Close
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", "file", used)
	}
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Write the relationship graph as DOT, SVG or JSON",
		Example: `  umlgraph render decls/                 # DOT on stdout
  umlgraph render -f svg -o ml.svg decls/  # needs Graphviz dot on PATH
  umlgraph render --frontend go ./`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := BuildGraph(cmd.Context(), a.cfg, args, a.logger)
			if err != nil {
				return err
			}
			return a.writeGraph(cmd, g)
		},
	}
	outputFlags(cmd)
	return cmd
}

// writeGraph renders g to the configured output file, or stdout.
func (a *app) writeGraph(cmd *cobra.Command, g *Graph) error {
	out := cmd.OutOrStdout()
	if a.cfg.Output != "" {
		f, err := os.Create(a.cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := Render(cmd.Context(), out, g, a.cfg.Format); err != nil {
		return err
	}
	if a.cfg.Output != "" {
		a.logger.Info("wrote graph", "file", a.cfg.Output, "format", a.cfg.Format)
	}
	return nil
}

func outputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", FormatDOT, "output format: dot, svg or json")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func (a *app) loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [paths...]",
		Short: "Upsert the relationship graph into Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Neo4jPass == "" {
				return errors.New("--neo4j-pass is required")
			}
			ctx := cmd.Context()
			g, err := BuildGraph(ctx, a.cfg, args, a.logger)
			if err != nil {
				return err
			}
			loader, err := NewNeo4jLoader(ctx, a.cfg.Neo4jURI, a.cfg.Neo4jUser, a.cfg.Neo4jPass, a.logger)
			if err != nil {
				return err
			}
			if a.cfg.Neo4jClean {
				if err := loader.CleanGraph(); err != nil {
					loader.Close()
					return err
				}
			}
			if err := saveGraph(loader, g); err != nil {
				return err
			}
			a.logger.Info("graph loaded into Neo4j")
			return nil
		},
	}
	f := cmd.Flags()
	f.String("neo4j-uri", "bolt://localhost:7687", "Neo4j bolt URI")
	f.String("neo4j-user", "neo4j", "Neo4j username")
	f.String("neo4j-pass", "", "Neo4j password")
	f.Bool("clean", false, "remove previously loaded UML graph data first")
	bind(a.v, f.Lookup("neo4j-uri"), "neo4j.uri")
	bind(a.v, f.Lookup("neo4j-user"), "neo4j.user")
	bind(a.v, f.Lookup("neo4j-pass"), "neo4j.pass")
	bind(a.v, f.Lookup("clean"), "neo4j.clean")
	return cmd
}

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store [paths...]",
		Short: "Persist the relationship graph as a run in a SQLite file",
		Long:  "Persist the relationship graph as a new run and print the run id.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := BuildGraph(ctx, a.cfg, args, a.logger)
			if err != nil {
				return err
			}
			store, err := NewSQLiteStore(ctx, a.cfg.SQLitePath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(g); err != nil {
				return err
			}
			run, err := store.LastRun()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), run)
			return nil
		},
	}
	dbFlag(cmd)
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Render a graph stored in SQLite, the latest run by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := NewSQLiteStore(cmd.Context(), a.cfg.SQLitePath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			var run string
			if len(args) == 1 {
				run = args[0]
			} else if run, err = store.LastRun(); err != nil {
				return err
			}
			g, err := store.Graph(run)
			if err != nil {
				return err
			}
			a.logger.Debug("read stored graph", "run", run, "nodes", len(g.Nodes), "edges", len(g.Edges))
			return a.writeGraph(cmd, g)
		},
	}
	dbFlag(cmd)
	outputFlags(cmd)
	return cmd
}

func dbFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", "umlgraph.db", "SQLite database file")
}

// saveGraph writes g to s and closes it.
func saveGraph(s Sink, g *Graph) error {
	if err := s.Save(g); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

// bind ties a flag to a config key; the flag wins only when set.
func bind(v *viper.Viper, flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}
