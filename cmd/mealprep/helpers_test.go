package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"mealprep/internal/config"
	"mealprep/internal/testsupport"
)

// externalCSV holds exact rows for kipfilet and rijst, a repeated kipfilet,
// and a longer olive oil name that only matches fuzzily.
const externalCSV = `name,measurement_unit,weight_per_unit,protein_per_100g,calories_per_100g,fat_per_100g,carbohydrates_per_100g,alcohol_percentage
kipfilet,g,,23,110,1.5,0,0
rijst,g,,7,350,0.6,78,0
kipfilet,g,,22,105,1.2,0,0
olijfolie extra vergine,ml,,0,884,100,0,0
pindakaas,g,,25,600,50,12,0
`

type cliEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) cliEnv {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithoutLogFile()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return cliEnv{cfg: cfg, configPath: testsupport.WriteConfigFile(t, cfg)}
}

func runCLI(t *testing.T, env cliEnv, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), env, stdin, args...)
}

func runCLIContext(t *testing.T, ctx context.Context, env cliEnv, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if env.configPath != "" {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q\n%s", want, output)
		}
	}
}

func requireNotContains(t *testing.T, output string, unwanted string) {
	t.Helper()
	if strings.Contains(output, unwanted) {
		t.Fatalf("expected output not to contain %q\n%s", unwanted, output)
	}
}
