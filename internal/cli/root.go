package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"symptom-triage/internal/config"
	"symptom-triage/internal/core"
	"symptom-triage/internal/llm"
	"symptom-triage/pkg"
)

// ClientFactory builds the model client used by the analyze command.
type ClientFactory func(ctx context.Context, cfg *config.Config) (llm.Client, error)

// Options holds CLI-level configuration.
type Options struct {
	Verbose   bool
	NewClient ClientFactory
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.NewClient == nil {
		opts.NewClient = llm.New
	}

	root := &cobra.Command{
		Use:           "triagectl",
		Short:         "Marathi symptom triage from the command line",
		Long:          "triagectl runs the symptom triage pipeline locally and inspects the disease and zone vocabulary.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Log pipeline steps to stderr")

	root.AddCommand(newAnalyzeCommand(&opts))
	root.AddCommand(newPromptCommand())
	root.AddCommand(newDiseasesCommand())
	return root
}

func newAnalyzeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [complaint]",
		Short: "Classify a complaint and print the triage response as JSON",
		Long:  "Classify a complaint and print the triage response as JSON. The complaint is read from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			complaint, err := readComplaint(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			labels, err := cfg.ZoneLabels()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client, err := opts.NewClient(ctx, cfg)
			if err != nil {
				return err
			}

			logger := zerolog.Nop()
			if opts.Verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
			}

			resp, err := core.NewTriageService(client, logger, labels).Analyze(ctx, complaint)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}

func newPromptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt [complaint]",
		Short: "Print the prompt that would be sent to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			complaint, err := readComplaint(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), core.BuildPrompt(complaint))
			return err
		},
	}
}

func newDiseasesCommand() *cobra.Command {
	var labelsFile string

	cmd := &cobra.Command{
		Use:   "diseases",
		Short: "List the disease catalog and the triage zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := pkg.DefaultZoneLabels()
			if labelsFile != "" {
				var err error
				if labels, err = config.LoadZoneLabels(labelsFile); err != nil {
					return err
				}
			}
			displayCatalog(cmd.OutOrStdout(), labels)
			return nil
		},
	}

	cmd.Flags().StringVar(&labelsFile, "labels", "", "YAML file overriding the zone labels")
	return cmd
}

func displayCatalog(out io.Writer, labels map[pkg.Zone]string) {
	fmt.Fprintln(out, "Diseases:")
	for i, d := range pkg.Diseases() {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, d.Name)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Zones:")
	for _, z := range pkg.Zones() {
		fmt.Fprintf(out, "  %-8s %s\n", z.Zone, pkg.ZoneLabel(labels, z.Zone))
	}
}

// readComplaint joins the arguments, or reads all of stdin when there are
// none.  An empty complaint is allowed.
func readComplaint(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading complaint from stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, llm.ErrModelCallFailed):
		return 3
	case errors.Is(err, core.ErrMalformedModelOutput), errors.Is(err, core.ErrIncompleteModelOutput):
		return 4
	default:
		return 1
	}
}
