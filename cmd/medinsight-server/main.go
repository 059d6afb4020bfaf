package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medinsight/medinsight/internal/config"
	"github.com/medinsight/medinsight/internal/domain/symptom"
	"github.com/medinsight/medinsight/internal/platform/db"
	"github.com/medinsight/medinsight/internal/platform/sandbox"
	"github.com/medinsight/medinsight/migrations"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "medinsight-server",
		Short:        "Symptom analysis and appointment analytics API",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(tenantCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(knowledgeCmd())
	root.AddCommand(sandboxCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// newLogger writes JSON to out, or a console rendering in development.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// openPool loads config and connects the postgres pool used by the schema
// commands.
func openPool(ctx context.Context) (*config.Config, *pgxpool.Pool, *db.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.StoreBackend != config.BackendPostgres {
		return nil, nil, nil, fmt.Errorf("this command needs STORE_BACKEND=%s, got %q", config.BackendPostgres, cfg.StoreBackend)
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, pool, db.NewMigrator(pool, migrations.Files, newLogger(cfg, os.Stderr)), nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, migrator, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			schema := schemaFlag(cmd, cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", schema)
			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema (defaults to the DEFAULT_TENANT schema)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, migrator, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			schema := schemaFlag(cmd, cfg)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Migration status for schema: %s\n", schema)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.Name, status, appliedAt)
			}
			return w.Flush()
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema (defaults to the DEFAULT_TENANT schema)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func schemaFlag(cmd *cobra.Command, cfg *config.Config) string {
	if schema, _ := cmd.Flags().GetString("schema"); schema != "" {
		return schema
	}
	return db.SchemaName(cfg.DefaultTenant)
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant schema and apply migrations to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if !db.ValidTenantID(name) {
				return fmt.Errorf("invalid tenant identifier %q", name)
			}

			ctx := cmd.Context()
			_, pool, migrator, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Creating tenant schema: %s\n", db.SchemaName(name))
			if err := db.CreateTenantSchema(ctx, pool, name, migrator); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tenant created successfully.")
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

// parseSymptomFlag reads "phrase" or "phrase:severity"; severity defaults to
// moderate.
func parseSymptomFlag(s string) (symptom.SymptomReport, error) {
	phrase, sev, found := strings.Cut(s, ":")
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return symptom.SymptomReport{}, fmt.Errorf("empty symptom in %q", s)
	}
	severity := symptom.SeverityModerate
	if found {
		parsed, err := symptom.ParseSeverity(strings.TrimSpace(sev))
		if err != nil {
			return symptom.SymptomReport{}, err
		}
		severity = parsed
	}
	return symptom.SymptomReport{Symptom: phrase, Severity: severity}, nil
}

func readAnalysisRequest(path string, flags []string, age int, sex string) (*symptom.AnalysisRequest, error) {
	req := &symptom.AnalysisRequest{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	for _, f := range flags {
		r, err := parseSymptomFlag(f)
		if err != nil {
			return nil, err
		}
		req.Symptoms = append(req.Symptoms, r)
	}
	if age > 0 {
		req.Age = &age
	}
	if sex != "" {
		req.Sex = sex
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze symptoms offline and print the result as JSON",
		Example: `  medinsight-server analyze -s "fever:severe" -s "body aches" -s "chills:moderate"
  medinsight-server analyze --file symptoms.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			flags, _ := cmd.Flags().GetStringArray("symptom")
			age, _ := cmd.Flags().GetInt("age")
			sex, _ := cmd.Flags().GetString("sex")

			req, err := readAnalysisRequest(path, flags, age, sex)
			if err != nil {
				return err
			}
			analyzer, err := analyzerFromEnv()
			if err != nil {
				return err
			}
			result := analyzer.Analyze(req.Symptoms, symptom.AnalysisContext{Age: req.Age, Sex: req.Sex})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"result":     result,
				"disclaimer": symptom.Disclaimer,
			})
		},
	}
	cmd.Flags().StringArrayP("symptom", "s", nil, `Symptom as "phrase" or "phrase:severity" (repeatable)`)
	cmd.Flags().StringP("file", "f", "", "JSON file with an analysis request")
	cmd.Flags().Int("age", 0, "Patient age")
	cmd.Flags().String("sex", "", "Patient sex (male, female, other)")
	return cmd
}

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect the disease knowledge base",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List diseases in ranking order",
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := analyzerFromEnv()
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			return printDiseases(cmd.OutOrStdout(), analyzer.KnowledgeBase().Diseases(), asJSON)
		},
	}
	listCmd.Flags().Bool("json", false, "Print JSON instead of a table")
	cmd.AddCommand(listCmd)
	return cmd
}

func printDiseases(out io.Writer, diseases []symptom.DiseaseProfile, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(diseases)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISEASE\tTIER\tSPECIALIST\tKEYWORDS")
	for _, d := range diseases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", d.Name, d.SeverityTier, d.Specialist, len(d.Keywords))
	}
	return w.Flush()
}

// analyzerFromEnv builds an analyzer for the offline commands, which need no
// store and so tolerate a missing DATABASE_URL.
func analyzerFromEnv() (*symptom.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{
			KnowledgeBaseFile: os.Getenv("KNOWLEDGE_BASE_FILE"),
		}
	}
	return newAnalyzer(cfg)
}

func sandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Synthetic demo data",
	}
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a synthetic dataset of patients, appointments and symptom sets as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc sandbox.SeedConfig
			sc.PatientCount, _ = cmd.Flags().GetInt("patients")
			sc.AppointmentsPerPatient, _ = cmd.Flags().GetInt("appointments")
			sc.AnalysisCount, _ = cmd.Flags().GetInt("analyses")
			sc.Seed, _ = cmd.Flags().GetInt64("seed")

			loc := time.UTC
			if tz, _ := cmd.Flags().GetString("timezone"); tz != "" {
				l, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("timezone %q: %w", tz, err)
				}
				loc = l
			}
			ds, result := sandbox.NewSeeder(sc, loc).Generate(time.Now())
			fmt.Fprintf(cmd.ErrOrStderr(), "generated %d patients, %d appointments, %d analyses\n",
				result.Patients, result.Appointments, result.Analyses)
			return sandbox.ExportJSON(cmd.OutOrStdout(), ds)
		},
	}
	genCmd.Flags().Int("patients", 0, "Number of patients (default 50)")
	genCmd.Flags().Int("appointments", 0, "Appointments per patient (default 6)")
	genCmd.Flags().Int("analyses", 0, "Symptom sets to generate (default 40)")
	genCmd.Flags().Int64("seed", 0, "Random seed; 0 picks one from the clock")
	genCmd.Flags().String("timezone", "", "IANA zone for appointment times (default UTC)")
	cmd.AddCommand(genCmd)
	return cmd
}
