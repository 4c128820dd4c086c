// Copyright 2026 The TempoSynth Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const conveyorPlant = `
automata:
  - alphabet: [move, release]
    initial: belt
    final: [belt]
    clocks: [x]
    transitions:
      - {source: belt, target: belt, action: move, resets: [x]}
      - source: belt
        target: belt
        action: release
        guards:
          - {clock: x, op: ">", value: 2}
`

const safetyPlant = `
automata:
  - alphabet: [ok, bad]
    initial: s0
    final: [s0, s1]
    clocks: [x]
    transitions:
      - {source: s0, target: s0, action: ok}
      - {source: s0, target: s1, action: bad}
`

func writePlant(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plant.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) int {
	t.Helper()
	exitCode = ExitRealizable
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil && exitCode == ExitRealizable {
		exitCode = ExitInputError
	}
	return exitCode
}

func TestSynthesizeRealizable(t *testing.T) {
	plantPath := writePlant(t, conveyorPlant)
	output := filepath.Join(t.TempDir(), "controller.xml")

	code := runCLI(t, "synthesize",
		"--plant", plantPath,
		"--spec", "move D[0,2] !release",
		"--controller-actions", "move",
		"--output", output,
	)
	if code != ExitRealizable {
		t.Fatalf("exit code = %d, want %d", code, ExitRealizable)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("controller not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("controller file is empty")
	}
}

func TestSynthesizeUnrealizable(t *testing.T) {
	plantPath := writePlant(t, safetyPlant)

	code := runCLI(t, "synthesize",
		"--plant", plantPath,
		"--spec", "G !at_s1",
		"--controller-actions", "ok",
		"--location-constraints",
		"--output", filepath.Join(t.TempDir(), "controller.xml"),
	)
	if code != ExitUnrealizable {
		t.Errorf("exit code = %d, want %d", code, ExitUnrealizable)
	}
}

func TestSynthesizeInputError(t *testing.T) {
	plantPath := writePlant(t, safetyPlant)

	code := runCLI(t, "synthesize",
		"--plant", plantPath,
		"--spec", "G !!(",
		"--output", filepath.Join(t.TempDir(), "controller.xml"),
	)
	if code != ExitInputError {
		t.Errorf("exit code = %d, want %d", code, ExitInputError)
	}
}

func TestVisualize(t *testing.T) {
	plantPath := writePlant(t, safetyPlant)
	code := runCLI(t, "visualize", plantPath)
	if code != ExitRealizable {
		t.Errorf("exit code = %d, want 0", code)
	}
}
