package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shiftclose/internal/errs"
)

func parseEventID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid event id %q", raw)
	}
	return id, nil
}

// readFormFile loads a form submission from --form. "-" reads stdin; an
// empty flag means no fresh submission.
func readFormFile(cmd *cobra.Command) ([]byte, error) {
	formFile, _ := cmd.Flags().GetString("form")
	formFile = strings.TrimSpace(formFile)
	if formFile == "" {
		return nil, nil
	}

	if formFile == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errs.Wrap(err, "read form from stdin")
		}
		return raw, nil
	}

	raw, err := os.ReadFile(formFile)
	if err != nil {
		return nil, errs.Wrapf(err, "read form file %q", formFile)
	}
	return raw, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errs.Wrap(err, "write json output")
	}
	return nil
}

func exactlyOneEventArg(cmd *cobra.Command, args []string) error {
	useCurrent, _ := cmd.Flags().GetBool("current")
	if useCurrent && len(args) > 0 {
		return errors.New("event id and --current are mutually exclusive")
	}
	if !useCurrent && len(args) != 1 {
		return errors.New("event id is required (or pass --current)")
	}
	return nil
}
