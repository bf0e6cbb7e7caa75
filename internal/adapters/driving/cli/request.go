package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

// playerFlag is shared by the document commands. Negative means unset.
var playerFlag int64

func addPlayerFlag(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&playerFlag, "player", -1, "country id to read as the player")
}

// documentArgs builds the arguments of a document command.
func documentArgs(path string) map[string]any {
	args := map[string]any{"path": path}
	if playerFlag >= 0 {
		args["player_id"] = playerFlag
	}
	return args
}

// dispatch runs one request through the boundary and returns its data.
func dispatch(ctx context.Context, command string, args map[string]any, frames driving.FrameWriter) (json.RawMessage, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher not configured")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding arguments: %w", err)
	}
	resp := dispatcher.Dispatch(ctx, domain.Request{
		RequestID: uuid.NewString(),
		Command:   command,
		Arguments: raw,
	}, frames)
	if !resp.OK {
		if resp.Error == nil {
			return nil, fmt.Errorf("%s failed", command)
		}
		return nil, resp.Err()
	}
	return resp.Data, nil
}

// runData dispatches command and prints its data in the selected format.
func runData(cmd *cobra.Command, command string, args map[string]any) error {
	if err := checkOutputFormat(); err != nil {
		return err
	}
	if outputFormat == outputYAML {
		args["format"] = domain.FormatYAML
	}
	data, err := dispatch(cmd.Context(), command, args, nil)
	if err != nil {
		return err
	}
	return printData(cmd, data)
}

func checkOutputFormat() error {
	switch outputFormat {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", outputFormat)
	}
}

// printData writes JSON indented, or the YAML document a yaml request
// returns as a JSON string.
func printData(cmd *cobra.Command, data json.RawMessage) error {
	if outputFormat == outputYAML {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decoding yaml output: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), strings.TrimRight(text, "\n")+"\n")
		return nil
	}
	return printJSON(cmd, data)
}

func printJSON(cmd *cobra.Command, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("decoding output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), buf.String())
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// decodeData unmarshals response data for text rendering.
func decodeData[T any](data json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding output: %w", err)
	}
	return &v, nil
}
