package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the configured API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.settings()
			if err != nil {
				return err
			}
			if err := checkHealth(cmd.Context(), s.APIURL); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), failureStyle.Render("✗ "+s.APIURL+" is unreachable"))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ "+s.APIURL+" is up"))
			return nil
		},
	}
}

func checkHealth(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/api/v1/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	return nil
}
