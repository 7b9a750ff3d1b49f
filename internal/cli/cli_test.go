package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "mdpost", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, path := range [][]string{
		{"render"},
		{"preview"},
		{"watch"},
		{"format"},
		{"serve"},
		{"init"},
		{"version"},
		{"post", "create"},
		{"post", "list"},
		{"post", "show"},
		{"post", "describe"},
		{"config", "show"},
		{"config", "env"},
	} {
		sub, _, err := cmd.Find(path)
		if !assert.NoError(t, err, "find %v", path) {
			continue
		}
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command []string
		flags   []string
	}{
		{[]string{"render"}, []string{"output", "jobs", "theme", "enable", "disable", "ignore", "dry-run", "drafts", "follow-symlinks", "verbose"}},
		{[]string{"preview"}, []string{"theme", "html", "width", "enable", "disable"}},
		{[]string{"watch"}, []string{"theme", "html", "width", "no-clear"}},
		{[]string{"format"}, []string{"selection", "write", "yaml", "diff"}},
		{[]string{"serve"}, []string{"addr", "driver", "dsn", "theme", "jobs", "no-posts"}},
		{[]string{"init"}, []string{"force", "output", "driver", "theme"}},
		{[]string{"post", "create"}, []string{"title", "description", "generate-description"}},
		{[]string{"config", "show"}, []string{"sources"}},
	}

	root := cli.NewRootCommand(testInfo())
	for _, tt := range tests {
		sub, _, err := root.Find(tt.command)
		require.NoError(t, err)
		for _, name := range tt.flags {
			assert.NotNil(t, sub.Flags().Lookup(name), "%v should have --%s", tt.command, name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "expected global flag %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2026-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "mdpost")
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestVersionShort(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"version", "--short"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1.2.3\n", out.String())
}

func TestArgs(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(testInfo())

	tests := []struct {
		command []string
		args    []string
		wantErr bool
	}{
		{[]string{"render"}, []string{"a.md", "b.md", "docs/"}, false},
		{[]string{"preview"}, nil, false},
		{[]string{"preview"}, []string{"a.md", "b.md"}, true},
		{[]string{"watch"}, nil, true},
		{[]string{"format"}, nil, true},
		{[]string{"format"}, []string{"bold", "a.md"}, false},
		{[]string{"post", "show"}, nil, true},
		{[]string{"serve"}, []string{"extra"}, true},
	}

	for _, tt := range tests {
		sub, _, err := root.Find(tt.command)
		require.NoError(t, err)
		err = sub.Args(sub, tt.args)
		if tt.wantErr {
			assert.Error(t, err, "%v %v", tt.command, tt.args)
		} else {
			assert.NoError(t, err, "%v %v", tt.command, tt.args)
		}
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--color=never", "--help"})

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.NotContains(t, help, "\x1b[")
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Commands:")
	assert.Contains(t, help, "render")
	assert.Contains(t, help, "--config string")
}

func TestSubcommandHelpUsesCommandWriter(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"post", "list", "--help", "--color", "never"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "mdpost post list")
	assert.Contains(t, out.String(), "Global Flags:")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"render", "--no-such-flag"})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
}
