package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"no command", nil, 2, "Commands:"},
		{"help", []string{"help"}, 2, "Blocks:"},
		{"unknown command", []string{"erase"}, 2, `unknown command "erase"`},
		{"bad flag", []string{"-nope", "ping"}, 2, "-nope"},
		{"unknown bus", []string{"-bus", "spi:0", "ping"}, 1, `unknown bus "spi:0"`},
		{"bad i2c adapter", []string{"-bus", "i2c:x", "ping"}, 1, "invalid i2c adapter"},
		{"buspirate without port", []string{"-bus", "buspirate", "ping"}, 1, "needs a serial port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.stderr, stderr)
			}
		})
	}
}

func TestRunPing(t *testing.T) {
	code, out, stderr := runCLI(t, "-bus", "sim", "ping")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(out, "DSP at 0x34: ok") || !strings.Contains(out, "EEPROM at 0x50: ok") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunCoeffs(t *testing.T) {
	code, out, stderr := runCLI(t, "coeffs", "gain", "value=0.5", "channels=2")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	for _, l := range lines {
		if !strings.Contains(l, "0.5") || !strings.Contains(l, "5.23") || !strings.HasSuffix(l, "00 00 40 00 00") {
			t.Errorf("line = %q", l)
		}
	}
}

func TestRunCoeffsUsesSampleRate(t *testing.T) {
	_, at48, _ := runCLI(t, "coeffs", "delay", "ms=10")
	_, at96, _ := runCLI(t, "-fs", "96000", "coeffs", "delay", "ms=10")
	if !strings.Contains(at48, "480") {
		t.Errorf("48 kHz:\n%s", at48)
	}
	if !strings.Contains(at96, "960") {
		t.Errorf("96 kHz:\n%s", at96)
	}
}

func TestRunCoeffsErrors(t *testing.T) {
	code, _, stderr := runCLI(t, "coeffs", "volume", "db=loud")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "dspctl coeffs:") || !strings.Contains(stderr, "not a number") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestRunSet(t *testing.T) {
	params := writeFile(t, "signal_IC_1_PARAM.h", `/* Module SW vol 1 - Single SW slew vol (adjustable)*/
#define MOD_SWVOL1_COUNT                               2
#define MOD_SWVOL1_DEVICE                              "IC1"
#define MOD_SWVOL1_ALG0_TARGET_ADDR                    22
#define MOD_SWVOL1_ALG0_TARGET_FIXPT                   0x00800000
#define MOD_SWVOL1_ALG0_TARGET_VALUE                   SIGMASTUDIOTYPE_FIXPOINT_CONVERT(1)
#define MOD_SWVOL1_ALG0_TARGET_TYPE                    SIGMASTUDIOTYPE_FIXPOINT
#define MOD_SWVOL1_ALG0_STEP_ADDR                      23
#define MOD_SWVOL1_ALG0_STEP_FIXPT                     0x00000800
#define MOD_SWVOL1_ALG0_STEP_VALUE                     SIGMASTUDIOTYPE_FIXPOINT_CONVERT(0.000244140625)
#define MOD_SWVOL1_ALG0_STEP_TYPE                      SIGMASTUDIOTYPE_FIXPOINT
`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"by module", []string{"set", "-params", params, "SW vol 1", "volume", "db=-6"}, "volume written at 0x0016"},
		{"by cell", []string{"set", "-params", params, "SWVOL1_ALG0_STEP", "gain", "value=0.25"}, "gain written at 0x0017"},
		{"by address", []string{"set", "-at", "0x40", "eq", "type=peaking", "boost=3"}, "eq written at 0x0040"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := runCLI(t, append([]string{"-bus", "sim"}, tt.args...)...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output should contain %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestRunSetErrors(t *testing.T) {
	params := writeFile(t, "p_PARAM.h", `/* Module Gain1 - Gain*/
#define MOD_GAIN1_COUNT                                1
#define MOD_GAIN1_DEVICE                               "IC1"
#define MOD_GAIN1_ALG0_TARGET_ADDR                     10
#define MOD_GAIN1_ALG0_TARGET_FIXPT                    0x00800000
#define MOD_GAIN1_ALG0_TARGET_VALUE                    SIGMASTUDIOTYPE_FIXPOINT_CONVERT(1)
#define MOD_GAIN1_ALG0_TARGET_TYPE                     SIGMASTUDIOTYPE_FIXPOINT
`)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"no target", []string{"set", "gain"}, "need -params"},
		{"unknown module", []string{"set", "-params", params, "Gain2", "gain"}, `no module or parameter named "Gain2"`},
		{"bad address", []string{"set", "-at", "zero", "gain"}, "invalid address"},
		{"param error", []string{"set", "-at", "10", "mux", "index=4", "count=2"}, "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append([]string{"-bus", "sim"}, tt.args...)...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.errMsg) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.errMsg, stderr)
			}
		})
	}
}

func TestRunFlash(t *testing.T) {
	img := writeFile(t, "E2Prom.Hex", "0x01, 0x00, 0x00, 0x00, 0x05,\n0x08, 0x1C, 0x00, 0x58,\n")

	code, out, stderr := runCLI(t, "-bus", "sim", "flash", "-delay", "0", "-version", "7", img)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(out, "EEPROM verified") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "complete") {
		t.Errorf("no progress in output:\n%s", out)
	}
}

func TestRunFlashErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"no image", []string{"flash"}, "expected one image file"},
		{"missing file", []string{"flash", filepath.Join(t.TempDir(), "none.hex")}, "none.hex"},
		{"bad capacity", []string{"flash", "-kbit", "32", writeFile(t, "a.hex", "0x01,")}, "unsupported EEPROM capacity"},
		{"bad version", []string{"flash", "-delay", "0", "-version", "300", writeFile(t, "b.hex", "0x01,")}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append([]string{"-bus", "sim"}, tt.args...)...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.errMsg) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.errMsg, stderr)
			}
		})
	}
}

func TestRunVersionBlank(t *testing.T) {
	code, out, stderr := runCLI(t, "-bus", "sim", "version", "-kbit", "512")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(out, "no version tag") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDownload(t *testing.T) {
	header := writeFile(t, "test_IC_1.h", `#define DEVICE_ADDR_IC_1                          0x68

#define PARAM_SIZE_IC_1 8
#define PARAM_ADDR_IC_1 0
#define PARAM_REGSIZE_IC_1 4
ADI_REG_TYPE Param_Data_IC_1[PARAM_SIZE_IC_1] = {
0x00, 0x80, 0x00, 0x00,
0x00, 0x00, 0x08, 0x00
};

void default_download_IC_1() {
	SIGMA_WRITE_REGISTER_BLOCK( DEVICE_ADDR_IC_1, PARAM_ADDR_IC_1, PARAM_SIZE_IC_1, Param_Data_IC_1 );
}
`)

	code, out, stderr := runCLI(t, "-bus", "sim", "-aux", "reset", "download", "-reset", header)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(out, "downloaded 1 blocks (8 bytes)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunReadbackArgs(t *testing.T) {
	code, _, stderr := runCLI(t, "-bus", "sim", "readback")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "0x081A") {
		t.Errorf("stderr:\n%s", stderr)
	}
}

func TestRunPreview(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.wav")
	code, stdout, stderr := runCLI(t, "preview", "-out", out,
		"-block", "volume db=-6.02",
		"-block", "eq type=lowpass freq=100",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "volume -> lowpass") {
		t.Errorf("output:\n%s", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("no output file: %v", err)
	}
}

func TestRunPreviewErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"bad block", []string{"preview", "-block", "reverb"}, "unknown block kind"},
		{"not previewable", []string{"preview", "-out", filepath.Join(dir, "a.wav"), "-block", "sine freq=440"}, "cannot be previewed"},
		{"bad input", []string{"preview", "-in", filepath.Join(dir, "in.flac")}, "in.flac"},
		{"bad depth", []string{"preview", "-out", filepath.Join(dir, "b.wav"), "-bits", "12"}, "bit depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code == 0 {
				t.Error("exit code = 0, want failure")
			}
			if !strings.Contains(stderr, tt.errMsg) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.errMsg, stderr)
			}
		})
	}
}
