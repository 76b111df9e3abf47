// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pathbnb/search"
)

var policyHelp = map[search.Policy]string{
	search.Sequential:   "single goroutine reference search",
	search.Unbounded:    "one goroutine per branch of the source",
	search.DepthBounded: "goroutine per branch above the spawn depth, inline below",
	search.WorkerPool:   "source branches queued on a fixed worker pool",
	search.FanOut:       "parallel loop over shallow branches, bounded by workers",
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List scheduling policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range search.Policies() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-13s  %s\n", p, policyHelp[p]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
