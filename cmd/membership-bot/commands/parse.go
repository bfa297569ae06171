// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/similigh/membership-bot/internal/membership"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Check a request body against the issue template",
	Long: `Parse a membership request body and print the extracted fields as JSON.
Reads stdin when no file is given. Exits with status 1 when a required
field is missing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return parseBody(in, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseBody(r io.Reader, w io.Writer) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	app, err := membership.ParseApplication(string(body))
	if err != nil {
		var missing *membership.MissingFieldsError
		if errors.As(err, &missing) {
			fmt.Fprintln(w, membership.MissingFieldsComment("author"))
		}
		return err
	}

	out, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}
