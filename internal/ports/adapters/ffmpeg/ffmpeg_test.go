package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cezarfpek/clipper/internal/ports"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and fails for binaries listed in failFor.
type fakeRunner struct {
	calls   []call
	failFor map[string]error
	output  []byte
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if err, ok := f.failFor[name]; ok {
		return f.output, err
	}
	return nil, nil
}

func TestProbe_PrimarySucceeds(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := New("ffmpeg", "/usr/local/bin/ffmpeg", WithRunner(r))
	if err := a.Probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0].name != "ffmpeg" {
		t.Fatalf("unexpected probe calls: %+v", r.calls)
	}
	if r.calls[0].args[0] != "-version" {
		t.Fatalf("expected version probe, got %v", r.calls[0].args)
	}
}

func TestProbe_FallsBackToAbsolutePath(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{failFor: map[string]error{"ffmpeg": errors.New("not found")}}
	a := New("ffmpeg", "/usr/local/bin/ffmpeg", WithRunner(r))
	if err := a.Probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(r.calls) != 2 || r.calls[1].name != "/usr/local/bin/ffmpeg" {
		t.Fatalf("unexpected probe calls: %+v", r.calls)
	}

	// Subsequent stages must use the resolved fallback binary.
	if err := a.Resize(context.Background(), "in.mp4", "out.mp4"); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := r.calls[len(r.calls)-1].name; got != "/usr/local/bin/ffmpeg" {
		t.Fatalf("stage used %q, want resolved fallback", got)
	}
}

func TestProbe_BothLocationsUnavailable(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{failFor: map[string]error{
		"ffmpeg":                errors.New("not found"),
		"/usr/local/bin/ffmpeg": errors.New("not found"),
	}}
	a := New("", "", WithRunner(r))
	err := a.Probe(context.Background())
	var ue *EngineUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *EngineUnavailableError", err)
	}
	if len(ue.Probed) != 2 {
		t.Fatalf("expected both probed locations recorded, got %v", ue.Probed)
	}
}

func TestTrim_ArgumentContract(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := New("ffmpeg", "", WithRunner(r))
	if err := a.Trim(context.Background(), "raw.mp4", "trimmed.mp4", 90, 45); err != nil {
		t.Fatalf("trim: %v", err)
	}

	want := []string{
		"-ss", "90.000",
		"-i", "raw.mp4",
		"-t", "45.000",
		"-c:v", "copy",
		"-an",
		"-avoid_negative_ts", "make_zero",
		"-y",
		"trimmed.mp4",
	}
	got := r.calls[0].args
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("trim args = %v, want %v", got, want)
	}
}

func TestTrim_FailureMapsToTrimError(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{
		failFor: map[string]error{"ffmpeg": errors.New("exit status 1")},
		output:  []byte("raw.mp4: Invalid data found when processing input"),
	}
	a := New("ffmpeg", "", WithRunner(r))
	err := a.Trim(context.Background(), "raw.mp4", "trimmed.mp4", 0, 10)
	var te *TrimError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TrimError", err)
	}
	if !strings.Contains(te.Diagnostic, "Invalid data") {
		t.Fatalf("diagnostic lost: %q", te.Diagnostic)
	}
}

func TestResize_ArgumentContract(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := New("ffmpeg", "", WithRunner(r))
	if err := a.Resize(context.Background(), "trimmed.mp4", "resized.mp4"); err != nil {
		t.Fatalf("resize: %v", err)
	}

	args := r.calls[0].args
	var vf string
	for i, v := range args {
		if v == "-vf" {
			vf = args[i+1]
		}
	}
	if vf != "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920" {
		t.Fatalf("unexpected resize filter: %q", vf)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-an") || !strings.Contains(joined, "-preset fast") {
		t.Fatalf("missing audio drop or preset: %v", args)
	}
}

func TestResize_FailureMapsToResizeError(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{failFor: map[string]error{"ffmpeg": errors.New("exit status 1")}}
	a := New("ffmpeg", "", WithRunner(r))
	var re *ResizeError
	if err := a.Resize(context.Background(), "a", "b"); !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ResizeError", err)
	}
}

func TestOverlay_EscapesCaptionAndWindowsText(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := New("ffmpeg", "", WithRunner(r))
	err := a.Overlay(context.Background(), "resized.mp4", "final.mp4", ports.OverlayOptions{
		Text:     "credits: Rick's Channel on Youtube",
		Font:     "DejaVu Sans",
		ShowFrom: 44,
		ShowTo:   45,
	})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}

	args := r.calls[0].args
	var vf string
	for i, v := range args {
		if v == "-vf" {
			vf = args[i+1]
		}
	}
	if !strings.HasPrefix(vf, "drawtext=text='") {
		t.Fatalf("unexpected filter: %q", vf)
	}
	if !strings.Contains(vf, `credits\: Rick\'s Channel on Youtube`) {
		t.Fatalf("caption not escaped: %q", vf)
	}
	if !strings.Contains(vf, "enable='between(t,44.000,45.000)'") {
		t.Fatalf("overlay window missing: %q", vf)
	}
	if !strings.Contains(vf, "x=(w-text_w)/2") || !strings.Contains(vf, "y=h*0.75") {
		t.Fatalf("placement missing: %q", vf)
	}
	if !strings.Contains(vf, "font='DejaVu Sans'") {
		t.Fatalf("font missing: %q", vf)
	}
}

func TestOverlay_OmitsFontWhenUnset(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := New("ffmpeg", "", WithRunner(r))
	err := a.Overlay(context.Background(), "in", "out", ports.OverlayOptions{
		Text: "credits: x on Youtube", ShowFrom: 0, ShowTo: 1,
	})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if strings.Contains(r.calls[0].args[3], "font=") {
		t.Fatalf("font should be omitted: %q", r.calls[0].args[3])
	}
}

func TestOverlay_FailureMapsToOverlayError(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{
		failFor: map[string]error{"ffmpeg": errors.New("exit status 1")},
		output:  []byte("Fontconfig error"),
	}
	a := New("ffmpeg", "", WithRunner(r))
	err := a.Overlay(context.Background(), "in", "out", ports.OverlayOptions{Text: "t", ShowTo: 1})
	var oe *OverlayError
	if !errors.As(err, &oe) {
		t.Fatalf("error = %v, want *OverlayError", err)
	}
	if oe.Diagnostic != "Fontconfig error" {
		t.Fatalf("diagnostic = %q", oe.Diagnostic)
	}
}
