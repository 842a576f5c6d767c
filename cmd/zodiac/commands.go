package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/zodiac/internal/cli"
	"github.com/hyperjump/zodiac/internal/config"
	"github.com/hyperjump/zodiac/internal/export"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/pipeline"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/search"
	"github.com/hyperjump/zodiac/pkg/utils"
)

func newScanCmd() *cobra.Command {
	var name, userID string
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Create a project for a website, scrape it and extract its business profile",
		Example: `  zodiac scan https://example.com
  zodiac scan example.com --name "Example Co" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			p, err := s.Service.CreateProject(ctx, &models.ProjectInput{
				WebsiteURL: args[0],
				Name:       name,
				UserID:     userID,
			})
			if err != nil {
				return err
			}
			res, err := s.Service.Scan(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("project %s: %w", p.ID, err)
			}
			return cli.WriteScan(s.out, p, res, s.format)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: website host)")
	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	return cmd
}

// detailFlags are the optional generation details exposed as flags.
type detailFlags struct {
	audience, offer, price, tone, goal string
}

// details returns nil when no detail was given.
func (f detailFlags) details() *models.OptionalDetails {
	d := &models.OptionalDetails{
		TargetAudience: strings.TrimSpace(f.audience),
		MainOffer:      strings.TrimSpace(f.offer),
		PricePoint:     strings.TrimSpace(f.price),
		BrandTone:      strings.TrimSpace(f.tone),
		MainGoal:       strings.TrimSpace(f.goal),
	}
	if *d == (models.OptionalDetails{}) {
		return nil
	}
	return d
}

func newGenerateCmd() *cobra.Command {
	var (
		language string
		df       detailFlags
	)
	cmd := &cobra.Command{
		Use:   "generate <projectID> TYPE...",
		Short: "Generate marketing documents from a project's profile",
		Example: `  zodiac generate 6f1c... BRAND_GUIDELINES FAQ
  zodiac generate 6f1c... EMAIL_SEQUENCE --tone playful --language Spanish`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.Service.Generate(cmd.Context(), args[0], &models.GenerateRequest{
				OutputTypes:     normalizeTypes(args[1:]),
				OptionalDetails: df.details(),
				Language:        language,
			})
			if err != nil {
				return err
			}
			if err := cli.WriteGenerateResult(s.out, res, s.format); err != nil {
				return err
			}
			if res.Batch != nil && res.Batch.Succeeded() == 0 {
				return fmt.Errorf("all %d document types failed", len(res.Batch.Results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "output language (default from config)")
	cmd.Flags().StringVar(&df.audience, "audience", "", "target audience override")
	cmd.Flags().StringVar(&df.offer, "offer", "", "main offer override")
	cmd.Flags().StringVar(&df.price, "price", "", "price point override")
	cmd.Flags().StringVar(&df.tone, "tone", "", "brand tone override")
	cmd.Flags().StringVar(&df.goal, "goal", "", "main goal override")
	return cmd
}

// normalizeTypes splits comma-separated arguments into type names.
func normalizeTypes(args []string) []string {
	var out []string
	for _, a := range args {
		for _, t := range strings.Split(a, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func newOutputsCmd() *cobra.Command {
	var (
		query     string
		limit     int
		fuzziness int
	)
	cmd := &cobra.Command{
		Use:   "outputs <projectID>",
		Short: "List or search a project's generated documents",
		Example: `  zodiac outputs 6f1c...
  zodiac outputs 6f1c... --search "pricing objections" --fuzziness 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if query != "" {
				results, err := s.Service.Search(ctx, args[0], query, &search.Options{Limit: limit, Fuzziness: fuzziness})
				if err != nil {
					return err
				}
				return cli.WriteSearchResults(s.out, query, results, s.format)
			}
			outputs, err := s.Service.Outputs(ctx, args[0])
			if err != nil {
				return err
			}
			return cli.WriteOutputs(s.out, outputs, s.format)
		},
	}
	cmd.Flags().StringVar(&query, "search", "", "full-text query over titles and content")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum search results")
	cmd.Flags().IntVar(&fuzziness, "fuzziness", 0, "edit distance for typo-tolerant search (0-2)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		all    bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <projectID>",
		Short: "Export a project's profile and documents to a file",
		Long: fmt.Sprintf(`Export renders the profile and the latest document of each type into one file.
With --all every stored document is included.

Formats: %s`, strings.Join(export.Formats(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			artifact, err := s.Service.Export(cmd.Context(), args[0], format, all)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(artifact.Data)
				return err
			}
			path := exportPath(out, artifact.Filename)
			if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			if s.format == cli.OutputJSON {
				return cli.WriteJSON(s.out, map[string]any{"path": path, "bytes": len(artifact.Data), "contentType": artifact.ContentType})
			}
			fmt.Fprintf(s.out, "Wrote %s (%d bytes)\n", path, len(artifact.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "export format")
	cmd.Flags().BoolVar(&all, "all", false, "include every stored document, not only the latest per type")
	cmd.Flags().StringVar(&out, "out", "", `output file or directory ("-" for stdout)`)
	return cmd
}

// exportPath resolves --out against the artifact's filename. An empty out or
// an existing directory keeps the generated filename.
func exportPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the document types that can be generated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, debug, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := utils.NewCLILogger(debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			reg := prompts.NewRegistry(prompts.WithLogger(logger))
			if path := cfg.Templates.OverridesPath; path != "" {
				if err := reg.LoadOverrides(path); err != nil {
					return fmt.Errorf("failed to load template overrides: %w", err)
				}
			}
			return cli.WriteTypes(cmd.OutOrStdout(), pipeline.TypeInfos(reg), format)
		},
	}
}

func newInitCmd() *cobra.Command {
	var (
		provider string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default settings",
		Long: `Init writes a config file filled with the default settings to path, or to
--config when no path is given. API keys are not written; set them with
ZODIAC_LLM_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfig
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := &config.Config{}
			cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(provider))
			config.ApplyDefaults(cfg)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "llm provider: openai, gemini or echo (default openai)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the output search index from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.Service.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			if s.format == cli.OutputJSON {
				return cli.WriteJSON(s.out, map[string]int{"indexed": n})
			}
			fmt.Fprintf(s.out, "Indexed %d outputs\n", n)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			if format == cli.OutputJSON {
				return cli.WriteJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zodiac %s\n", version)
			return nil
		},
	}
}
