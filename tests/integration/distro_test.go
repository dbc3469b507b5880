//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMain(m *testing.M) {
	if err := exec.Command("docker", "info").Run(); err != nil {
		fmt.Println("Docker not available; skipping integration tests:", err)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// findProjectRoot walks up from this file's location until it finds go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Log("runtime.Caller failed; falling back to os.Getwd")
		dir, _ := os.Getwd()
		return dir
	}
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	t.Log("go.mod not found; falling back to os.Getwd")
	wd, _ := os.Getwd()
	return wd
}

// testScript runs the unit tests, then the X11 tests against an Xvfb server
// using the distro's default xkb keymap.
const testScript = `set -e
cp -r /src/. /workspace/
cd /workspace
GOINSTALLED=$(go version | awk '{print $3}' | sed 's/go//')
go mod edit -go="$GOINSTALLED" -toolchain=none
go mod tidy
go test -count=1 ./...
Xvfb :99 -screen 0 1280x720x24 &
XVFB_PID=$!
sleep 1
export DISPLAY=:99
go test -v -count=1 -tags x11test ./internal/x11/...
kill $XVFB_PID || true
`

var distros = []string{"ubuntu-22.04", "fedora-39", "arch-latest"}

// x11Checks must report PASS on every distro. A skipped keymap or grab test
// means the distro's xkb data does not give us what the backend assumes.
var x11Checks = []string{
	"TestKeymapResolvesModifierKeys",
	"TestHotkeyFiresOnSynthesizedPress",
	"TestGrabHeldByOtherClient",
	"TestShiftedKeysymFires",
}

func TestDistroMatrix(t *testing.T) {
	root := findProjectRoot(t)

	for _, name := range distros {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			logs, code, err := runInDistro(t, root, name)
			if err != nil {
				t.Errorf("[%s] %v", name, err)
				return
			}
			if code != 0 {
				t.Errorf("[%s] exited with code %d\n%s", name, code, logs)
				return
			}
			for _, check := range x11Checks {
				if !strings.Contains(logs, "--- PASS: "+check) {
					t.Errorf("[%s] %s did not pass\n%s", name, check, logs)
				}
			}
		})
	}
}

// runInDistro builds the distro image, runs testScript in it and returns the
// container output and exit code.
func runInDistro(t *testing.T, root, name string) (string, int, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    filepath.Join(root, "tests", "integration", "dockerfiles", name),
			Dockerfile: "Dockerfile",
			KeepImage:  true,
		},
		Mounts: testcontainers.ContainerMounts{
			{
				Source:   testcontainers.GenericBindMountSource{HostPath: root},
				Target:   "/src",
				ReadOnly: true,
			},
			{
				Source: testcontainers.GenericVolumeMountSource{Name: "gotalk-hotkeys-gomodcache"},
				Target: "/root/go/pkg/mod",
			},
		},
		Cmd:        []string{"/bin/sh", "-c", testScript},
		WaitingFor: wait.ForExit().WithExitTimeout(15 * time.Minute),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", 0, fmt.Errorf("starting container: %w", err)
	}
	defer c.Terminate(context.Background()) //nolint:errcheck

	var logs string
	if r, err := c.Logs(ctx); err == nil {
		raw, _ := io.ReadAll(r)
		logs = string(raw)
	}
	state, err := c.State(ctx)
	if err != nil {
		return logs, 0, fmt.Errorf("container state: %w", err)
	}
	t.Logf("[%s] container logs:\n%s", name, logs)
	return logs, state.ExitCode, nil
}
