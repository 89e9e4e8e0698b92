package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"traitvote/internal/config"
	"traitvote/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	ballotDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("TRAITVOTE_DATA_DIR", "")
	t.Setenv("TRAITVOTE_LOG_LEVEL", "")

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		ballotDir:  filepath.Join(base, "ballots"),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\noutput_dir = %q\n\n[history]\nenabled = true\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.DataDir,
		cfg.Paths.OutputDir,
		cfg.History.Path,
	)
	testsupport.WriteFile(t, path, content)
}

// writePhaseTwoBallots seeds one ballot per default panel source:
// age is a 4/5 majority, bmi a 3/5 split and mood has only two votes.
func writePhaseTwoBallots(t *testing.T, dir string) {
	t.Helper()
	votes := map[string][][2]string{
		"claude":   {{"age", "Demographics"}, {"bmi", "Anthropometrics"}, {"mood", "Affect"}},
		"gpt5":     {{"age", "Demographics"}, {"bmi", "Anthropometrics"}, {"mood", "Affect"}},
		"gemini":   {{"age", "Demographics"}, {"bmi", "Anthropometrics"}},
		"deepseek": {{"age", "Demographics"}, {"bmi", "Health"}},
		"grok":     {{"age", "Identity"}, {"bmi", "Health"}},
	}
	for source, rows := range votes {
		testsupport.WriteBallot(t, dir, source, "trait", "umbrella", rows)
	}
}

const phaseTwoCSV = "trait,umbrella,agreement,flag,claude,gpt5,gemini,deepseek,grok\n" +
	"age,Demographics,4/5,🟢,Demographics,Demographics,Demographics,Demographics,Identity\n" +
	"bmi,Anthropometrics,3/5,🟡,Anthropometrics,Anthropometrics,Anthropometrics,Health,Health\n" +
	"mood,Affect,2/2,🔴,Affect,Affect,,,\n"

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\n%s", substr, output)
	}
}

func TestCLIAggregateRecordsRun(t *testing.T) {
	env := setupCLITestEnv(t)
	writePhaseTwoBallots(t, env.ballotDir)

	out, _, err := runCLI(t, []string{"aggregate", "--phase", "umbrella", "--dir", env.ballotDir}, env.configPath)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	outPath := filepath.Join(env.cfg.Paths.OutputDir, "umbrella_consensus.csv")
	requireContains(t, out, "Wrote 3 verdicts to "+outPath)
	requireContains(t, out, "33.3%")

	if got := testsupport.ReadFile(t, outPath); got != phaseTwoCSV {
		t.Fatalf("unexpected verdict file:\n%s", got)
	}
	if _, err := os.Stat(outPath + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("expected lock file to be released, stat err=%v", err)
	}

	var runID string
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Run ID: "); ok {
			runID = strings.TrimSpace(rest)
		}
	}
	if runID == "" {
		t.Fatalf("run id missing from output:\n%s", out)
	}

	listOut, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	requireContains(t, listOut, runID[:runIDDisplayLen])
	requireContains(t, listOut, "umbrella")

	exported, _, err := runCLI(t, []string{"runs", "show", runID[:12], "--export", "csv"}, env.configPath)
	if err != nil {
		t.Fatalf("runs show failed: %v", err)
	}
	if exported != phaseTwoCSV {
		t.Fatalf("exported run differs from written file:\n%s", exported)
	}

	showOut, _, err := runCLI(t, []string{"runs", "show", runID, "--tier", "red"}, env.configPath)
	if err != nil {
		t.Fatalf("runs show --tier failed: %v", err)
	}
	requireContains(t, showOut, "mood")
	if strings.Contains(showOut, "Anthropometrics") {
		t.Fatalf("tier filter leaked other verdicts:\n%s", showOut)
	}
}

func TestCLIAggregateWideToStdoutJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	wide := filepath.Join(env.baseDir, "wide.csv")
	testsupport.WriteFile(t, wide,
		"umbrella,claude,gpt5,gemini,deepseek,grok\n"+
			"Demographics,PREDICTABLE,PREDICTABLE,PREDICTABLE,OTHER,\n")

	out, _, err := runCLI(t, []string{
		"aggregate", "--phase", "category", "--wide", wide,
		"--out", "-", "--format", "json", "--no-history",
	}, env.configPath)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	var records []struct {
		Item      string             `json:"item"`
		Label     string             `json:"label"`
		Agreement string             `json:"agreement"`
		Flag      string             `json:"flag"`
		Votes     map[string]*string `json:"votes"`
	}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Item != "Demographics" || rec.Label != "PREDICTABLE" || rec.Agreement != "3/4" || rec.Flag != "🟡" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Votes["grok"] != nil {
		t.Fatalf("expected grok abstention to be null, got %q", *rec.Votes["grok"])
	}

	listOut, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	requireContains(t, listOut, "No runs recorded")
}

func TestCLIAggregateRequiresSingleInput(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := [][]string{
		{"aggregate", "--phase", "umbrella"},
		{"aggregate", "--phase", "umbrella", "--dir", "a", "--wide", "b"},
		{"aggregate", "--phase", "bogus", "--dir", env.ballotDir},
		{"aggregate", "--phase", "umbrella", "--dir", env.ballotDir, "--format", "xml"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestCLIMergeProposals(t *testing.T) {
	env := setupCLITestEnv(t)
	proposals := filepath.Join(env.baseDir, "proposals.yaml")
	testsupport.WriteFile(t, proposals, `claude: [Demographics, "Medical History", Lifestyle]
gpt5: [demographics, medical history]
gemini: ["  DEMOGRAPHICS ", Medical History, Lifestyle Factors]
deepseek: [Lifestyle]
grok: []
`)

	out, _, err := runCLI(t, []string{"merge", proposals, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	var result mergeResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode merge output: %v\n%s", err, out)
	}
	want := []string{"demographics", "medical history"}
	if strings.Join(result.Categories, "|") != strings.Join(want, "|") {
		t.Fatalf("categories = %v, want %v", result.Categories, want)
	}
	if result.Quorum != 3 {
		t.Fatalf("expected config quorum 3, got %d", result.Quorum)
	}

	out, _, err = runCLI(t, []string{"merge", proposals, "--quorum", "2", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("merge --quorum failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode merge output: %v", err)
	}
	if len(result.Categories) != 3 {
		t.Fatalf("expected 3 categories at quorum 2, got %v", result.Categories)
	}

	if _, _, err := runCLI(t, []string{"merge", proposals, "--quorum", "0"}, env.configPath); err == nil {
		t.Fatal("expected error for quorum 0")
	}
}

func TestCLISummary(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "verdicts.csv")
	testsupport.WriteFile(t, path, phaseTwoCSV)

	out, _, err := runCLI(t, []string{"summary", path, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	want := map[string]float64{
		"total": 3, "green": 1, "green_pct": 33.3,
		"yellow": 1, "yellow_pct": 33.3, "red": 1, "red_pct": 33.3,
	}
	for key, value := range want {
		if got[key] != value {
			t.Fatalf("%s = %v, want %v", key, got[key], value)
		}
	}

	partial := filepath.Join(env.baseDir, "partial.csv")
	testsupport.WriteFile(t, partial, phaseTwoCSV+"zinc,,,,,,,,\n")
	out, _, err = runCLI(t, []string{"summary", partial, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("summary with unflagged row failed: %v", err)
	}
	got = nil
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if got["total"] != 4 || got["green"] != 1 || got["green_pct"] != 25 || got["red_pct"] != 25 {
		t.Fatalf("unflagged row should count toward total only: %v", got)
	}

	empty := filepath.Join(env.baseDir, "empty.csv")
	testsupport.WriteFile(t, empty, "trait,umbrella,agreement,flag\n")
	if _, _, err := runCLI(t, []string{"summary", empty}, env.configPath); err == nil {
		t.Fatal("expected error summarizing an empty verdict file")
	}
}

func TestCLIPreprocess(t *testing.T) {
	env := setupCLITestEnv(t)
	in := filepath.Join(env.baseDir, "raw.csv")
	out := filepath.Join(env.baseDir, "clean.csv")
	testsupport.WriteFile(t, in, "raw_trait\nAge >= 18.\n\"  age >=   18\"\nBMI < 30;\n\n")

	stdout, _, err := runCLI(t, []string{"preprocess", in, out, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if got := testsupport.ReadFile(t, out); got != "trait\nage >= 18\nbmi < 30\n" {
		t.Fatalf("unexpected preprocess output:\n%s", got)
	}
	requireContains(t, stdout, `"initial_count": 3`)
	requireContains(t, stdout, `"final_count": 2`)
	requireContains(t, stdout, `"reduction_pct": 33.3`)
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Panel: claude, gpt5, gemini, deepseek, grok")
	requireContains(t, out, "Configuration valid")
}
