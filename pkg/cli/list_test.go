package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/cli"
)

func TestRun_ListCommand(t *testing.T) {
	tmpDir := t.TempDir()
	transcript := `{
  "id": "call-001",
  "metadata": {
    "rep_name": "Dana Reyes",
    "company_name": "Acme Corp",
    "call_date": "2025-03-10",
    "call_type": "discovery"
  },
  "segments": [
    {"speaker_role": "prospect", "speaker_name": "Jordan", "text": "We need a Salesforce integration.", "start_time": 12.5, "end_time": 15.0}
  ]
}`
	err := os.WriteFile(filepath.Join(tmpDir, "call-001.json"), []byte(transcript), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"callsight", "list", "--input", tmpDir}, "test")
	gt.NoError(t, err)
}

func TestRun_ListCommand_EmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	err := cli.Run(context.Background(), []string{"callsight", "list", "--input", tmpDir}, "test")
	gt.NoError(t, err)
}

func TestRun_ListCommand_MissingDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	err := cli.Run(context.Background(), []string{"callsight", "list", "--input", filepath.Join(tmpDir, "missing")}, "test")
	gt.Value(t, err).NotNil()
}
