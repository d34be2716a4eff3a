// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFlagsMarkedRequired(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{addDatasetCmd, []string{"description", "size", "file-type", "source"}},
		{addProjectCmd, []string{"description", "objectives", "start-date", "pi"}},
	}

	for _, tt := range tests {
		for _, name := range tt.flags {
			flag := tt.cmd.Flags().Lookup(name)
			require.NotNil(t, flag, "%s: flag --%s not defined", tt.cmd.Name(), name)
			assert.Contains(t, flag.Annotations, cobra.BashCompOneRequiredFlag,
				"%s: flag --%s not marked required", tt.cmd.Name(), name)
		}
	}
}

func TestAddOptionalFlagsNotRequired(t *testing.T) {
	for _, name := range []string{"name", "tag", "compression", "completed-date"} {
		for _, cmd := range []*cobra.Command{addDatasetCmd, addProjectCmd} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			assert.NotContains(t, flag.Annotations, cobra.BashCompOneRequiredFlag,
				"%s: flag --%s should not be required", cmd.Name(), name)
		}
	}
}
