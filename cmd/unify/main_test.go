package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/vito/unify/pkg/ioctx"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type CLISuite struct{}

func TestCLI(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(CLISuite{})
}

// runCLI runs the root command and returns its stdout and stderr
func runCLI(ctx context.Context, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	ctx = ioctx.StdoutToContext(ctx, &stdout)
	ctx = ioctx.StderrToContext(ctx, &stderr)

	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func (CLISuite) TestCheck(ctx context.Context, t *testctx.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.toml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".toml")
		t.Run(name, func(ctx context.Context, t *testctx.T) {
			stdout, stderr, err := runCLI(ctx, "check", "--no-color", file)
			if name == "failures" {
				require.EqualError(t, err, "5 of 5 not accepted")
			} else {
				require.NoError(t, err, "stderr: %s", stderr)
			}
			golden.Assert(t, stdout, name+".golden")
		})
	}
}

func (CLISuite) TestSolveJSON(ctx context.Context, t *testctx.T) {
	stdout, stderr, err := runCLI(ctx, "solve", "--json", filepath.Join("testdata", "lists.toml"))
	require.NoError(t, err, "stderr: %s", stderr)
	golden.Assert(t, stdout, "lists.solve.json.golden")
}

func (CLISuite) TestClassify(ctx context.Context, t *testctx.T) {
	stdout, _, err := runCLI(ctx, "classify", filepath.Join("testdata", "lists.toml"))
	require.NoError(t, err)
	golden.Assert(t, stdout, "lists.classify.golden")

	stdout, _, err = runCLI(ctx, "classify", "--json", filepath.Join("testdata", "failures.toml"))
	require.NoError(t, err)
	var out []classification
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 1)
	assert.Equal(t, classification{
		Function: "plus",
		Verdict:  "Headed",
		Heads:    []string{"argument 2", "suc"},
	}, out[0])
}

func (CLISuite) TestParallelFiles(ctx context.Context, t *testctx.T) {
	lists := filepath.Join("testdata", "lists.toml")
	failures := filepath.Join("testdata", "failures.toml")

	stdout, _, err := runCLI(ctx, "check", "--no-color", "-j", "2", lists, failures)
	require.EqualError(t, err, "5 of 8 not accepted")

	// reports keep argument order whatever order the files finish in
	listsOut := golden.Get(t, "lists.golden")
	failuresOut := golden.Get(t, "failures.golden")
	expected := trimSummary(string(listsOut)) + string(failuresOut)
	expected = trimSummary(expected) + "3 accepted, 3 rejected, 2 unresolved\n"
	assert.Equal(t, expected, stdout)
}

func (CLISuite) TestDebugAndDump(ctx context.Context, t *testctx.T) {
	_, stderr, err := runCLI(ctx, "check", "--no-color", "--debug", "--dump", filepath.Join("testdata", "lists.toml"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=assign")
	assert.Contains(t, stderr, "elab.Report{")
}

func (CLISuite) TestMissingFile(ctx context.Context, t *testctx.T) {
	_, _, err := runCLI(ctx, "check", filepath.Join("testdata", "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func trimSummary(out string) string {
	out = strings.TrimSuffix(out, "\n")
	return out[:strings.LastIndex(out, "\n")+1]
}
