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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/visualization"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize <plant.yaml>",
	Short: "Render a plant description as Graphviz DOT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ta, err := plant.LoadFile(args[0])
		if err != nil {
			exitCode = ExitInputError
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), visualization.AutomatonToDOT(args[0], ta))
		return nil
	},
}
