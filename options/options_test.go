package options

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kbukum/cypherstream/errors"
)

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		code    errors.ErrorCode
		message string
	}{
		{"duplicate config", "-c C1 --config C0", errors.ErrCodeDuplicateOption, "the following option is duplicated: '--config'"},
		{"duplicate input", "-i abc --input xyz", errors.ErrCodeDuplicateOption, "the following option is duplicated: '--input'"},
		{"duplicate output", "-o abc --output xyz", errors.ErrCodeDuplicateOption, "the following option is duplicated: '--output'"},
		{"duplicate short", "-c C1 -c C0", errors.ErrCodeDuplicateOption, "the following option is duplicated: '--config'"},
		{"missing config", "", errors.ErrCodeMissingOption, "the following mandatory option(s) are missing: [--config]"},
		{"missing config with input", "-i inp", errors.ErrCodeMissingOption, "the following mandatory option(s) are missing: [--config]"},
		{"positional", "-c C1 xyz", errors.ErrCodeInvalidOption, "the following option is unexpected: 'xyz'"},
		{"unknown long", "-c C1 --xyz", errors.ErrCodeInvalidOption, "the following option is unexpected: '--xyz'"},
		{"unknown short", "-c C1 -x", errors.ErrCodeInvalidOption, "the following option is unexpected: '-x'"},
		{"missing value short", "-i inp -c", errors.ErrCodeMissingOptionValue, "the following option(s) are missing value(s): [--config]"},
		{"missing value long", "-c C1 --output", errors.ErrCodeMissingOptionValue, "the following option(s) are missing value(s): [--output]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.Fields(tc.args))
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T: %v", err, err)
			}
			if appErr.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, appErr.Code)
			}
			if appErr.Message != tc.message {
				t.Errorf("expected %q, got %q", tc.message, appErr.Message)
			}
			if errors.ExitCode(err) != 1 {
				t.Errorf("expected exit code 1, got %d", errors.ExitCode(err))
			}
		})
	}
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name   string
		args   string
		want   Options
		render string
	}{
		{"short", "-i a -o b -c c", Options{Config: "c", Input: "a", Output: "b"}, "config: c, input: a, output: b"},
		{"long", "--input input --output output --config config", Options{Config: "config", Input: "input", Output: "output"}, "config: config, input: input, output: output"},
		{"mixed", "-i inp --output output -c conf", Options{Config: "conf", Input: "inp", Output: "output"}, "config: conf, input: inp, output: output"},
		{"reordered", "-c conf -i inp --output output", Options{Config: "conf", Input: "inp", Output: "output"}, "config: conf, input: inp, output: output"},
		{"config only", "-c C1-R0", Options{Config: "C1-R0"}, "config: C1-R0, input: -, output: -"},
		{"equals form", "--config=A --input=in.txt", Options{Config: "A", Input: "in.txt"}, "config: A, input: in.txt, output: -"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(strings.Fields(tc.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
			if got.String() != tc.render {
				t.Errorf("expected %q, got %q", tc.render, got.String())
			}
		})
	}
}

func TestParse_EmptyConfigValue(t *testing.T) {
	got, err := Parse([]string{"-c", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Config != "" {
		t.Errorf("expected empty config, got %q", got.Config)
	}
}

func TestParse_VersionAndHelpSkipConfig(t *testing.T) {
	for _, args := range [][]string{{"-v"}, {"--version"}, {"-h"}, {"--help"}} {
		t.Run(args[0], func(t *testing.T) {
			got, err := Parse(args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Version && !got.Help {
				t.Errorf("expected version or help to be set, got %+v", got)
			}
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "cypherstream")
	out := buf.String()

	for _, want := range []string{
		"Usage:",
		`cypherstream -c|--config "<config spec>" [ -i|--input <filename> ] [ -o|--output <filename> ]`,
		"--config",
		"--input",
		"--output",
		"CaesarCypher",
		"Rot8Cypher",
		"AtbashCypher",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected usage to contain %q, got:\n%s", want, out)
		}
	}
}
