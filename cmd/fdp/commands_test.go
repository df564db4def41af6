package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	stdout, _, err := executeCommandWithStderr(t, args...)
	return stdout, err
}

func executeCommandWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

const topMethods = `package main

var Exports = []string{"listSignals"}

func listSignals(self interface{}, args ...interface{}) (interface{}, error) {
	return nil, nil
}
`

const nstxuDocument = `machine: nstxu
mdstree: wf
signals:
  - name: ip
    mdspath: .magnetics
    mdsnode: IP
    units: A
containers:
  - name: bes
    mdstree: bes
    mdspath: .bes
    signals:
      - name: ch{}
        range: 1,2
        mdsnode: CH{}
        axes: channel,time
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestMachinesCommand_TableOutput(t *testing.T) {
	stdout, err := executeCommand(t, "machines")
	require.NoError(t, err)
	require.Contains(t, stdout, "MACHINE")
	require.Contains(t, stdout, "nstxu    nstx, nstxu, nstx-u")
	require.Contains(t, stdout, "cmod")
}

func TestMachinesCommand_JSONOutput(t *testing.T) {
	stdout, err := executeCommand(t, "machines", "--json")
	require.NoError(t, err)

	var payload []struct {
		Name    string   `json:"name"`
		Aliases []string `json:"aliases"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Len(t, payload, 3)
	require.Equal(t, "diiid", payload[1].Name)
	require.Contains(t, payload[1].Aliases, "d3d")
}

func TestResolveCommand_AttachesPluginMethods(t *testing.T) {
	plugins := t.TempDir()
	writeFile(t, filepath.Join(plugins, "methods.go"), topMethods)

	stdout, err := executeCommand(t, "resolve", "NSTX-U", "--plugins", plugins, "--config", "")
	require.NoError(t, err)
	require.Contains(t, stdout, "machine: nstxu")
	require.Contains(t, stdout, "methods: listSignals")
	require.Contains(t, stdout, "containers: (none)")
}

func TestResolveCommand_UnknownMachine(t *testing.T) {
	_, err := executeCommand(t, "resolve", "iter", "--plugins", "", "--config", "")
	require.Error(t, err)

	var idErr *fdperrors.InvalidIdentityError
	require.ErrorAs(t, err, &idErr)
	require.Contains(t, err.Error(), "fdp machines")
}

func TestResolveCommand_PluginFault(t *testing.T) {
	plugins := t.TempDir()
	writeFile(t, filepath.Join(plugins, "methods.go"), "package main\n\nfunc broken( {\n")

	_, err := executeCommand(t, "resolve", "cmod", "--plugins", plugins, "--config", "")
	var loadErr *fdperrors.PluginLoadError
	require.ErrorAs(t, err, &loadErr)
	require.Contains(t, err.Error(), "--plugins")
}

func TestResolveCommand_MetricsFlagWritesCounters(t *testing.T) {
	stdout, stderr, err := executeCommandWithStderr(t, "resolve", "nstx-u", "--metrics", "--plugins", "", "--config", "")
	require.NoError(t, err)
	require.Contains(t, stdout, "machine: nstxu")
	require.Contains(t, stderr, "# TYPE fdp_namespace_resolutions_total counter")
	require.Contains(t, stderr, `fdp_namespace_resolutions_total{machine="nstxu",outcome="ok"} 1`)
}

func TestResolveCommand_MetricsWrittenOnFailure(t *testing.T) {
	_, stderr, err := executeCommandWithStderr(t, "resolve", "iter", "--metrics", "--plugins", "", "--config", "")
	require.Error(t, err)
	require.Contains(t, stderr, `fdp_namespace_resolutions_total{machine="unknown",outcome="invalid"} 1`)
}

func TestResolveCommand_NoMetricsByDefault(t *testing.T) {
	_, stderr, err := executeCommandWithStderr(t, "resolve", "nstxu", "--plugins", "", "--config", "")
	require.NoError(t, err)
	require.NotContains(t, stderr, "fdp_")
}

func TestSignalsCommand_MetricsCountPathCache(t *testing.T) {
	configDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, "nstxu.yaml"), nstxuDocument)

	_, stderr, err := executeCommandWithStderr(t, "signals", "nstxu", "--metrics", "--config", configDir, "--plugins", "")
	require.NoError(t, err)
	require.Contains(t, stderr, `fdp_signal_path_cache_total{result="miss"}`)
}

func TestSignalsCommand_TableOutput(t *testing.T) {
	configDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, "nstxu.yaml"), nstxuDocument)

	stdout, err := executeCommand(t, "signals", "nstx", "--config", configDir, "--plugins", "")
	require.NoError(t, err)
	require.Contains(t, stdout, "CONTAINER")
	require.Contains(t, stdout, ".magnetics.IP")
	require.Contains(t, stdout, ".bes.CH2")
	require.Contains(t, stdout, "time,channel")
}

func TestSignalsCommand_JSONOutput(t *testing.T) {
	configDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, "nstxu.yaml"), nstxuDocument)

	stdout, err := executeCommand(t, "signals", "nstxu", "--json", "--config", configDir, "--plugins", "")
	require.NoError(t, err)

	var rows []struct {
		Container string   `json:"container"`
		Name      string   `json:"name"`
		Path      string   `json:"path"`
		Tree      string   `json:"tree"`
		Axes      []string `json:"axes"`
		Transpose []int    `json:"transpose"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 3)
	require.Equal(t, "nstxu", rows[0].Container)
	require.Equal(t, "ip", rows[0].Name)
	require.Equal(t, "wf", rows[0].Tree)
	require.Equal(t, "nstxu.bes", rows[1].Container)
	require.Equal(t, "ch1", rows[1].Name)
	require.Equal(t, ".bes.CH1", rows[1].Path)
	require.Equal(t, "bes", rows[1].Tree)
	require.Equal(t, []string{"time", "channel"}, rows[2].Axes)
	require.Equal(t, []int{1, 0}, rows[2].Transpose)
}

func TestSignalsCommand_RequiresConfigDir(t *testing.T) {
	_, err := executeCommand(t, "signals", "nstxu", "--config", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--config")
}

func TestSignalsCommand_MalformedDocument(t *testing.T) {
	configDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, "cmod.yaml"), "machine: cmod\nsignals:\n  - name: x{}\n    range: one\n")

	_, err := executeCommand(t, "signals", "cmod", "--config", configDir, "--plugins", "")
	var malformed *fdperrors.MalformedDescriptorError
	require.ErrorAs(t, err, &malformed)
	require.Contains(t, err.Error(), "Fix the facility document")
}
