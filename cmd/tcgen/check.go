package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TailGuy/Telegraf-conf-generator/internal/topic"
)

var checkCmd = &cobra.Command{
	Use:   "check TOPIC [TOPIC...]",
	Short: "Check MQTT topic names against the naming rules",
	Long: `Check each argument against the MQTT topic naming rules and print a
diagnosis. For an invalid name whose problems are fixable by rewriting
(illegal characters, unreserved leading '$'), the sanitised form is
shown; over-long or overly-deep names cannot be fixed by rewriting and
are reported as such.

Exits non-zero if any argument is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, name := range args {
		err := topic.Check(name)
		if err == nil {
			fmt.Fprintf(out, "%s: valid\n", name)
			continue
		}

		invalid++
		fmt.Fprintf(out, "%s: invalid: %v\n", name, err)

		sanitised := topic.Sanitize(name)
		if sanitised == name {
			// Only length or depth violations remain; rewriting
			// characters cannot help.
			continue
		}
		if residual := topic.Check(sanitised); residual != nil {
			fmt.Fprintf(out, "  sanitised form %q is still invalid: %v\n", sanitised, residual)
		} else {
			fmt.Fprintf(out, "  sanitised form is valid: %s\n", sanitised)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d topic name(s) invalid", invalid, len(args))
	}
	return nil
}
