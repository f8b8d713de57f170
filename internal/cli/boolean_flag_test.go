package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		positional   []string
		expectError  bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "defaults_to_true", defaultValue: true, arguments: []string{}, expected: true},
		{name: "sets_true_without_value", arguments: []string{"--gitignore"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--gitignore=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--gitignore", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--gitignore", "on"}, expected: true},
		{name: "keeps_positional_root", arguments: []string{"--gitignore", "src"}, expected: true, positional: []string{"src"}},
		{name: "stops_at_terminator", arguments: []string{"--", "--gitignore"}, expected: false, positional: []string{"--gitignore"}},
		{name: "rejects_unknown_literal", arguments: []string{"--gitignore=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlags(command.Flags(), booleanFlag{
				name:         "gitignore",
				target:       &flagValue,
				defaultValue: testCase.defaultValue,
				usage:        "honour ignore files",
			})
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				require.Error(t, parseErr)
				return
			}
			require.NoError(t, parseErr)
			require.Equal(t, testCase.expected, flagValue)
			if testCase.positional != nil {
				require.Equal(t, testCase.positional, command.Flags().Args())
			}
		})
	}
}
