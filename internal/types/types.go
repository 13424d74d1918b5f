package types

// Stage identifies a phase of the clip pipeline for progress reporting.
type Stage string

const (
	StageResolving   Stage = "resolving"
	StageDownloading Stage = "downloading"
	StageTrimming    Stage = "trimming"
	StageResizing    Stage = "resizing"
	StageOverlaying  Stage = "overlaying"
	StageCleaning    Stage = "cleaning"
	StageDone        Stage = "done"
	StageErrored     Stage = "errored"
)

// FractionUnknown marks a progress event whose completion fraction is
// indeterminate.
const FractionUnknown = -1.0

// ProgressEvent is a transient telemetry value emitted to the observer.
// Fraction is in [0,1] when known, FractionUnknown otherwise.
type ProgressEvent struct {
	Stage    Stage
	Fraction float64
	Message  string
}

// ProgressFunc receives progress events synchronously from within the
// pipeline. A nil observer is valid and only disables telemetry.
type ProgressFunc func(ProgressEvent)

// ClipRequest describes one clip extraction run.
type ClipRequest struct {
	URL       string
	StartTime string // raw time expression, parsed by timecode.Parse
	EndTime   string
	Cookies   string // optional cookie-jar content, verbatim
}

// VideoMetadata is the slice of source metadata the pipeline needs.
// Uploader defaults to UnknownUploader when the source provides none.
type VideoMetadata struct {
	Uploader string `json:"uploader"`
	Title    string `json:"title"`
	ID       string `json:"id"`
}

// UnknownUploader is the sentinel uploader name used when the source
// resolver returns no channel identity.
const UnknownUploader = "Unknown Channel"

// FetchOptions configures a single resolver download. Every recognized
// resolver option is listed explicitly; there is no ambient configuration.
type FetchOptions struct {
	// Format is the resolver format preference string. The pipeline never
	// needs source audio, so a single progressive stream is preferred to
	// avoid any merge step.
	Format string

	// OutputTemplate is the templated download path inside the workspace;
	// the resolver chooses the final extension.
	OutputTemplate string

	// CookieFile, when non-empty, points at a Netscape cookie-jar file the
	// resolver should send credentials from.
	CookieFile string
}

// DownloadStatus is the event kind reported by the source resolver while
// fetching the binary stream.
type DownloadStatus string

const (
	StatusDownloading DownloadStatus = "downloading"
	StatusFinished    DownloadStatus = "finished"
	StatusError       DownloadStatus = "error"
)

// DownloadProgress is one resolver progress sample. Percent is 0-100;
// Speed and ETA are best-effort human-readable figures and may be empty.
type DownloadProgress struct {
	Status  DownloadStatus
	Percent float64
	Speed   string
	ETA     string
}

// DownloadProgressFunc receives resolver progress samples.
type DownloadProgressFunc func(DownloadProgress)
