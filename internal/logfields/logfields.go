package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject    = "project"
	KeyPath       = "path"
	KeyBundleID   = "bundle_id"
	KeyArtifactID = "artifact_id"
	KeyRunID      = "run_id"
	KeyTrigger    = "trigger"
	KeyOutcome    = "outcome"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyErrorCode  = "error_code"
	KeyError      = "error"
)

func Project(name string) slog.Attr    { return slog.String(KeyProject, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func BundleID(id string) slog.Attr     { return slog.String(KeyBundleID, id) }
func ArtifactID(id string) slog.Attr   { return slog.String(KeyArtifactID, id) }
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Files(n int) slog.Attr            { return slog.Int(KeyFiles, n) }
func ErrorCode(code string) slog.Attr  { return slog.String(KeyErrorCode, code) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
