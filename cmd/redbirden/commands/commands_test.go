package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbirden/cmd/redbirden/commands"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := commands.New()
	cli.SetOutput(&out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
config_dir: `+dir+`
guest_latency_frames: 1
csv_path: `+filepath.Join(dir, "events.csv")+`
log:
  level: error
  outputs: [`+filepath.Join(dir, "engine.log")+`]
`), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "redbirden version")
}

func TestLayout(t *testing.T) {
	out, err := execute(t, "layout")
	require.NoError(t, err)
	assert.Contains(t, out, "next-task")
	assert.Contains(t, out, "0x0203FFFC")
}

func TestRun_WithoutPayload(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := execute(t, "run", "-c", cfg, "-n", "120",
		"--status-all", "1", "--status-all", "2",
		"--wild", "151:Mew", "--encounter-every", "10", "--movement", "bike")
	require.NoError(t, err)

	assert.Contains(t, out, "frames=120")
	assert.Contains(t, out, "executed=3")
	assert.Contains(t, out, "species=[151]")
	assert.Contains(t, out, "payload=Missing")

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(events), "PrioDispatch")
}

func TestRun_WithPayload(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	payload := make([]byte, 0x104)
	payload[0x18], payload[0x19], payload[0x1A], payload[0x1B] = 0x01, 0x01, 0x72, 0x08
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redmod.elf"), payload, 0o644))

	out, err := execute(t, "run", "-c", cfg, "-n", "5", "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "payload=Loaded")
	assert.Contains(t, out, "entry=0x08720101")
}

func TestRun_InvalidWild(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "-c", writeConfig(t, dir), "--wild", "Mew")
	require.ErrorContains(t, err, commands.ErrInvalidWild.Error())
}

func TestRun_InvalidMovement(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "-c", writeConfig(t, dir), "--movement", "fly")
	require.ErrorContains(t, err, commands.ErrInvalidMovement.Error())
}

func TestRun_ZeroFramesDoesNotInstall(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "-c", writeConfig(t, dir), "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "frames=0")
	assert.Contains(t, out, "payload=NotRun")
}

func TestRun_Realtime(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "-c", writeConfig(t, dir), "-n", "3", "--realtime", "--status-all", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "frames=3")
}
