package cli

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so commands can run more
// than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type env struct {
	dir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{dir: t.TempDir()}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{
		"--db", filepath.Join(e.dir, "test.db"),
		"--config", filepath.Join(e.dir, "config.yaml"),
	}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestApply(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "apply", "R U R' U'")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	for _, want := range []string{"R U R' U'", "Corner orientation", "Edge permutation", "Solved:", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestApplyInverseSolves(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "apply", "R", "U", "U'", "R'")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(out, "yes") {
		t.Errorf("expected solved state:\n%s", out)
	}
}

func TestApplyCornersOnly(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "apply", "--variant", "corners", "R U")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if strings.Contains(out, "Edge permutation") {
		t.Errorf("corners-only output shows edges:\n%s", out)
	}
}

func TestApplyInvalidNotation(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run(t, "apply", "R Q"); err == nil {
		t.Fatal("expected error for unknown move")
	}
}

func TestCoords(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "coords", "0", "0", "0", "0")
	if err != nil {
		t.Fatalf("coords failed: %v", err)
	}
	if !strings.Contains(out, "yes") {
		t.Errorf("zero coordinates should be solved:\n%s", out)
	}

	if _, err := e.run(t, "coords", "0", "0"); err == nil {
		t.Error("expected error for two coordinates on the standard cube")
	}
	if _, err := e.run(t, "coords", "--variant", "corners", "0", "0", "0", "0"); err == nil {
		t.Error("expected error for four coordinates on the corners cube")
	}
	if _, err := e.run(t, "coords", "6561", "0", "0", "0"); err == nil {
		t.Error("expected error for out-of-range corner orientation")
	}
}

func TestTablesBuildRecordAndVerify(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "tables", "build", "--families", "co", "--workers", "2", "--record")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "Recorded build") {
		t.Errorf("build output missing record line:\n%s", out)
	}

	out, err = e.run(t, "builds")
	if err != nil {
		t.Fatalf("builds failed: %v", err)
	}
	if !strings.Contains(out, "standard") {
		t.Errorf("builds output missing variant:\n%s", out)
	}

	out, err = e.run(t, "tables", "verify", "--families", "co", "--samples", "500")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out, "18 checksums match") {
		t.Errorf("verify output missing checksum comparison:\n%s", out)
	}
}

func TestTablesVerifyWithoutRecord(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "tables", "verify", "--families", "eo", "--samples", "100")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(out, "No recorded checksums") {
		t.Errorf("expected no-record notice:\n%s", out)
	}
}

func TestTablesChecksum(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "tables", "checksum", "--move", "R", "--family", "cp")
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}  R/cp`).MatchString(out) {
		t.Errorf("unexpected checksum output: %q", out)
	}

	again, err := e.run(t, "tables", "checksum", "--move", "R", "--family", "cp", "--workers", "1")
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if again != out {
		t.Errorf("checksum depends on workers: %q vs %q", out, again)
	}
}

func TestTablesChecksumUnknownFamily(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run(t, "tables", "checksum", "--move", "R", "--family", "xx"); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run(t, "config", "set", "workers", "3"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := e.run(t, "config", "set", "families", "co,cp"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	out, err := e.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"workers: 3", "- co", "- cp"} {
		if !strings.Contains(out, want) {
			t.Errorf("config missing %q:\n%s", want, out)
		}
	}

	if _, err := e.run(t, "config", "set", "variant", "megaminx"); err == nil {
		t.Error("expected error for unknown variant")
	}
	if _, err := e.run(t, "config", "set", "colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigFamiliesApplyToBuild(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run(t, "config", "set", "families", "eo"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err := e.run(t, "tables", "build")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "Edge orientation") || strings.Contains(out, "Corner permutation") {
		t.Errorf("build ignored configured families:\n%s", out)
	}
}
