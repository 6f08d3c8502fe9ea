package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"market-analyst/internal/agent"
	"market-analyst/internal/charts"
)

// maxStepOutput caps the tool output shown per transcript step.
const maxStepOutput = 150

// renderResult prints a turn's answer, optional step transcript, and
// saves each chart artifact as an HTML file announced after the text.
// Artifacts belong to this turn only; nothing is retained.
func renderResult(output *Output, result *agent.TurnResult, chartsDir string, showSteps bool) {
	if showSteps && len(result.Steps) > 0 {
		output.Dim("Tool execution steps:")
		for i, step := range result.Steps {
			output.Dim("  %d. %s(%s)", i+1, step.Tool, step.Input)
			output.Dim("     %s", truncate(strings.TrimSpace(step.Output), maxStepOutput))
		}
		output.Println()
	}

	output.Println(result.Answer)

	for i, artifact := range result.Artifacts {
		path, err := saveArtifact(chartsDir, i, artifact)
		if err != nil {
			output.Error("Failed to save chart: %v", err)
			continue
		}
		output.Info("Chart saved: %s", path)
	}
}

// saveArtifact writes one chart artifact to the charts directory.
func saveArtifact(chartsDir string, index int, artifact *charts.Artifact) (string, error) {
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("chart_%s_%d.html", time.Now().Format("20060102_150405"), index)
	path := filepath.Join(chartsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := artifact.Render(f); err != nil {
		return "", err
	}
	return path, nil
}

// truncate shortens s for step-transcript display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
