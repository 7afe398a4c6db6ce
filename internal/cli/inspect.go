package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"curriculum-editor/internal/config"
	"curriculum-editor/internal/payload"
	"curriculum-editor/internal/validation"
)

// NewInspectCmd prints the editor view of a stored course record: derived durations,
// per-activity visible fields and the local validation result.
func NewInspectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <course.json|->",
		Short: "Show a course record as the editor sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locale := payload.DefaultLocale
			if cfg, err := config.Load(*configPath); err == nil && cfg.Money.Locale != "" {
				locale = cfg.Money.Locale
			}
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return inspect(in, cmd.OutOrStdout(), payload.NewMoney(locale))
		},
	}
}

func inspect(in io.Reader, out io.Writer, money payload.Money) error {
	var rec payload.CourseRecord
	if err := json.NewDecoder(in).Decode(&rec); err != nil {
		return fmt.Errorf("decode course record: %w", err)
	}
	tree := payload.Denormalize(rec, money)
	course := tree.Snapshot()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "course\t%s\t%d %s\t%s\n", course.Title, course.Duration, course.DurationUnit, course.Price)
	for i, m := range course.Modules {
		fmt.Fprintf(w, "module %d\t%s\t%d %s\t%ds\n", i, m.Title, m.Duration, m.DurationUnit, m.TotalSeconds)
		for j, a := range m.Activities {
			fmt.Fprintf(w, "  activity %d.%d\t%s\t%d %s\t%s [%s]\n", i, j, a.Title, a.Duration, a.DurationUnit,
				a.Type, strings.Join(payload.Visible(a.Type), ","))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	errs := validation.Local(tree)
	if len(errs) == 0 {
		fmt.Fprintln(out, "valid")
		return nil
	}
	for _, fe := range errs {
		fmt.Fprintf(out, "invalid %s: %s\n", fe.Key(), strings.Join(fe.Messages, "; "))
	}
	return nil
}
