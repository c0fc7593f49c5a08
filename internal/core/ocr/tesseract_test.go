package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout string
	stderr string
	err    error
	// versionErr fails only the --version probe
	versionErr error
}

func (r *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	if len(args) == 1 && args[0] == "--version" {
		if r.versionErr != nil {
			return nil, []byte("not found"), r.versionErr
		}
		return []byte("tesseract 5.3.0\n leptonica-1.82.0"), nil, nil
	}
	return []byte(r.stdout), []byte(r.stderr), r.err
}

func exitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 3").Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	return err
}

func TestTesseractEngine_Args(t *testing.T) {
	r := &fakeRunner{stdout: "STYLE # AB-1\n"}
	eng, err := NewTesseractEngine(context.Background(),
		Config{Tesseract: "tesseract", Language: "eng", TessdataDir: "/usr/share/tessdata"}, r, quietLogger())
	require.NoError(t, err)

	text, err := eng.Recognize(context.Background(), "/assets/rugs/slide_001/table_01.png")
	require.NoError(t, err)
	assert.Equal(t, "STYLE # AB-1\n", text)

	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{"--version"}, r.calls[0].args)
	assert.Equal(t, []string{
		"/assets/rugs/slide_001/table_01.png", "stdout",
		"-l", "eng",
		"--psm", "6",
		"-c", "tessedit_char_whitelist=" + Whitelist,
		"-c", "preserve_interword_spaces=1",
		"--tessdata-dir", "/usr/share/tessdata",
	}, r.calls[1].args)
}

func TestTesseractEngine_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantFault bool
	}{
		{name: "non-zero exit is an engine fault", err: exitError(t), wantFault: true},
		{name: "other failures are not", err: errors.New("exec: \"tesseract\": executable file not found"), wantFault: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRunner{err: tc.err, stderr: "Error in pixReadStream"}
			eng, err := NewTesseractEngine(context.Background(), Config{Tesseract: "tesseract", Language: "eng"}, r, quietLogger())
			require.NoError(t, err)

			_, err = eng.Recognize(context.Background(), "x.png")
			require.Error(t, err)
			assert.Equal(t, tc.wantFault, errors.Is(err, ErrEngineFault))
		})
	}
}

func TestNewTesseractEngine_ProbeFails(t *testing.T) {
	r := &fakeRunner{versionErr: errors.New("not found")}
	_, err := NewTesseractEngine(context.Background(), Config{Tesseract: "nope"}, r, quietLogger())
	assert.ErrorIs(t, err, ErrEngineInit)
}

func TestNewEngineFactory(t *testing.T) {
	_, err := NewEngineFactory(Config{Engine: "paddle"}, nil, quietLogger())
	assert.Error(t, err)

	r := &fakeRunner{}
	factory, err := NewEngineFactory(Config{}, r, quietLogger())
	require.NoError(t, err)
	eng, err := factory(context.Background())
	require.NoError(t, err)
	require.NoError(t, eng.Close())
	assert.Equal(t, "tesseract", r.calls[0].name)
}

func TestNormalize(t *testing.T) {
	in := "STYLE #: AB-1\r\n\r\n\r\n\r\n-----\nSIZE:\t5X7   \fCOUNTRY:  INDIA  \n"
	assert.Equal(t, "STYLE #: AB-1\n\nSIZE: 5X7\nCOUNTRY: INDIA", Normalize(in))
	assert.Equal(t, "", Normalize(""))
}
