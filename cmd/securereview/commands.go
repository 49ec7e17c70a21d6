package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
	"github.com/threatflux/secureReviewGo/internal/render"
	"github.com/threatflux/secureReviewGo/internal/workflow"
)

func (c *cli) scanCommand() *cobra.Command {
	var (
		language string
		project  string
		profile  string
		demo     bool
	)

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Analyze source code and print the scan report",
		Long: `Analyze a source file, or standard input when the file is "-" or omitted.
With --demo the vulnerable sample of the selected language is scanned instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			form := c.app.NewScanForm()

			if language != "" {
				lang := models.Language(strings.ToLower(language))
				if !models.IsValidLanguage(lang) {
					return fmt.Errorf("unsupported language: %s", language)
				}
				form.SelectLanguage(lang)
			}
			if project != "" {
				form.ProjectContext = models.ProjectContext(project)
			}
			if profile != "" {
				form.ScanProfile = models.ScanProfile(profile)
			}

			if demo {
				if err := c.app.LoadDemoCode(ctx, form); err != nil {
					return err
				}
			} else {
				code, err := readSource(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				form.SetCode(code)
			}

			c.banner(out)
			render.ScanForm(out, form)

			entry, err := c.app.SubmitScan(ctx, form)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			return c.showDashboard(ctx, out, entry)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "source language (python|javascript|java|go|php)")
	cmd.Flags().StringVar(&project, "context", "", "project context (Government|Enterprise|Education|Healthcare|Finance)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "scan profile (Fast|Deep|Compliance|demo)")
	cmd.Flags().BoolVar(&demo, "demo", false, "scan the vulnerable sample code")
	return cmd
}

func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(b), nil
}

func (c *cli) showDashboard(ctx context.Context, w io.Writer, entry navigation.Entry) error {
	view := c.app.OpenDashboard(ctx, entry)
	render.Dashboard(w, view)
	if !view.Ready() {
		return errUnavailable
	}
	return nil
}

func (c *cli) reportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <scanId>",
		Short: "Print the report of a previous scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.app.Navigate(navigation.DashboardPath(args[0]), nil)
			if err != nil {
				return err
			}
			return c.showDashboard(cmd.Context(), cmd.OutOrStdout(), entry)
		},
	}
}

func (c *cli) issueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "issue <scanId> <vulnId>",
		Short: "Print the detail of one finding of a scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			scanID, vulnID := args[0], args[1]

			entry, err := c.app.Navigate(navigation.DashboardPath(scanID), nil)
			if err != nil {
				return err
			}
			dash := c.app.OpenDashboard(ctx, entry)
			if !dash.Ready() {
				render.Dashboard(out, dash)
				return errUnavailable
			}

			var issue navigation.Entry
			if v, ok := dash.Value.FindVulnerability(vulnID); ok {
				issue, err = c.app.OpenIssue(scanID, *v)
			} else {
				issue, err = c.app.Navigate(navigation.IssuePath(vulnID), nil)
			}
			if err != nil {
				return err
			}

			view := c.app.OpenIssueView(ctx, issue)
			render.Issue(out, view)
			if !view.Ready() {
				return errUnavailable
			}
			return nil
		},
	}
}

func (c *cli) fixCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix <vulnId>",
		Short: "Print the generated secure fix for a finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var state any
			if current, ok := c.app.Store().Current(); ok {
				if v, ok := current.FindVulnerability(args[0]); ok {
					state = *v
				}
			}
			entry, err := c.app.Navigate(navigation.SecureFixPath(args[0]), state)
			if err != nil {
				return err
			}
			view := c.app.OpenSecureFix(cmd.Context(), entry)
			render.SecureFix(cmd.OutOrStdout(), view)
			if !view.Ready() {
				return errUnavailable
			}
			return nil
		},
	}
}

func (c *cli) simulateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <scanId>",
		Short: "Walk through the attack simulation of a scan stage by stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			entry, err := c.app.Navigate(navigation.AttackSimPath(args[0]), nil)
			if err != nil {
				return err
			}

			revealed := make(chan int, 1)
			view := c.app.OpenSimulation(ctx, entry, func(visible int) {
				select {
				case revealed <- visible:
				default:
				}
			})
			defer view.Close()

			if !view.Ready() {
				render.Simulation(out, view)
				return errUnavailable
			}
			return revealStages(ctx, out, view, revealed)
		},
	}
}

// revealStages prints each stage as it is revealed and the full view once
// the reveal is complete
func revealStages(ctx context.Context, w io.Writer, view *workflow.SimulationView, revealed <-chan int) error {
	sim := view.Value
	fmt.Fprintf(w, "Attack simulation %s: %d stages\n", view.ScanID, len(sim.Stages))

	printed := 0
	flush := func(visible int) {
		for ; printed < visible && printed < len(sim.Stages); printed++ {
			render.Stage(w, sim.Stages[printed], true)
		}
	}

	p := view.Process()
	if p == nil {
		return nil
	}
	for {
		select {
		case n := <-revealed:
			flush(n)
		case <-p.Done():
			flush(p.Visible())
			render.Simulation(w, view)
			return nil
		case <-ctx.Done():
			view.Close()
			return ctx.Err()
		}
	}
}

func (c *cli) complianceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compliance <scanId>",
		Short: "Print the compliance mapping of a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.app.Navigate(navigation.CompliancePath(args[0]), nil)
			if err != nil {
				return err
			}
			view := c.app.OpenCompliance(cmd.Context(), entry)
			render.Compliance(cmd.OutOrStdout(), view)
			if !view.Ready() {
				return errUnavailable
			}
			return nil
		},
	}
}

func (c *cli) samplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [language]",
		Short: "Print the vulnerable sample code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := c.cfg.Workflow.DefaultLanguage
			if len(args) == 1 {
				lang = models.Language(strings.ToLower(args[0]))
			}
			samples, err := c.svc.GetSampleCode(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load sample code: %w", err)
			}
			code, ok := samples.For(lang)
			if !ok {
				return fmt.Errorf("no sample code available for %s", lang)
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
}

func (c *cli) lessonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "Print the security lessons and learner progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.Navigate("/education", nil); err != nil {
				return err
			}
			view := c.app.OpenEducation(cmd.Context())
			render.Education(cmd.OutOrStdout(), view)
			if !view.Ready() {
				return errUnavailable
			}
			return nil
		},
	}
}

// infoService is implemented by clients that expose the service banner
type infoService interface {
	Info(ctx context.Context) (*models.ServiceInfo, error)
}

func (c *cli) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the analysis service banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			c.banner(out)
			fmt.Fprintf(out, "Client %s, service %s\n", Version, c.cfg.Service.BaseURL)

			svc, ok := c.svc.(infoService)
			if !ok {
				return nil
			}
			info, err := svc.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("analysis service unreachable: %w", err)
			}
			fmt.Fprintf(out, "%s %s\n", info.Message, info.Version)
			return nil
		},
	}
}
