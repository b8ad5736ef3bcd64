package config_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/pgmview/pgmview/pkg/config"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Verbose  int    `short:"v" type:"counter"`
	Insecure bool   `help:"allow http"`
	LogFile  string `name:"log-file"`

	View struct {
		Src   string `arg:""`
		Width int    `default:"80"`
		NoFit bool   `name:"no-fit"`
	} `cmd:""`

	Serve struct {
		Listen string   `default:":8080"`
		Tags   []string `name:"tags"`
	} `cmd:""`
}

func parse(t *testing.T, cfg string, args ...string) *testCLI {
	t.Helper()
	resolver, err := config.Loader(strings.NewReader(cfg))
	require.NoError(t, err)

	var cli testCLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestResolver_GlobalFlags(t *testing.T) {
	cli := parse(t, "verbose: 1\ninsecure: true\nlog_file: /tmp/pgmview.log\n", "view", "a.pgm")
	require.Equal(t, 1, cli.Verbose)
	require.True(t, cli.Insecure)
	require.Equal(t, "/tmp/pgmview.log", cli.LogFile)
}

func TestResolver_CommandFlags(t *testing.T) {
	cli := parse(t, "view:\n  width: 40\n  no_fit: true\n", "view", "a.pgm")
	require.Equal(t, 40, cli.View.Width)
	require.True(t, cli.View.NoFit)

	cli = parse(t, "serve:\n  listen: \":9999\"\n  tags: [a, b]\n", "serve")
	require.Equal(t, ":9999", cli.Serve.Listen)
	require.Equal(t, []string{"a", "b"}, cli.Serve.Tags)
}

func TestResolver_CommandLineWins(t *testing.T) {
	cli := parse(t, "view:\n  width: 40\n", "view", "--width", "120", "a.pgm")
	require.Equal(t, 120, cli.View.Width)
}

func TestResolver_DefaultsWhenAbsent(t *testing.T) {
	cli := parse(t, "unrelated: 1\n", "serve")
	require.Equal(t, ":8080", cli.Serve.Listen)
}

func TestResolver_StructValueRejected(t *testing.T) {
	resolver, err := config.Loader(strings.NewReader("insecure:\n  nested: true\n"))
	require.NoError(t, err)

	var cli testCLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"serve"})
	require.ErrorContains(t, err, "insecure")
}
