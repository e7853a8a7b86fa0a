package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner unless verbose or debug output
// is on. The returned cleanup stops it and prints FinalMSG.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() doesn't print it too.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Printed to stdout for tests to capture.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// readRecordInput returns the JSON text from an argument, a file, or stdin.
func readRecordInput(args []string, file string) ([]byte, error) {
	switch {
	case len(args) > 0:
		return []byte(args[0]), nil
	case file != "":
		data, err := os.ReadFile(file)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, file)
		}
		return data, err
	default:
		return utils.ReadStdin()
	}
}

// formatError turns a workflow error into the final spinner message.
func formatError(err error) string {
	cross := ui.Error.Sprint("✗")
	arrow := ui.Info.Sprint("→")

	switch {
	case errors.Is(err, kerrors.ErrConfigExists):
		return cross + " " + err.Error() + "\n" +
			arrow + " Use " + ui.Flag.Sprint("--force") + " to replace it"

	case errors.Is(err, kerrors.ErrUnknownBackend),
		errors.Is(err, kerrors.ErrUnknownCodec),
		errors.Is(err, kerrors.ErrUnknownDigest),
		errors.Is(err, kerrors.ErrInvalidConfig):
		return cross + " Configuration problem: " + err.Error() + "\n" +
			arrow + " Run " + ui.Code.Sprint("coffer doctor") + " to check your setup"

	case errors.Is(err, kerrors.ErrKeyNotFound):
		return cross + " " + err.Error()

	case errors.Is(err, kerrors.ErrIntegrityMismatch):
		return cross + " " + ui.Warning.Sprint("Data integrity check failed") + ": " + err.Error() + "\n" +
			arrow + " Restore the key from a backup with " + ui.Code.Sprint("coffer import")

	case errors.Is(err, kerrors.ErrShiftOverflow):
		return cross + " " + err.Error() + "\n" +
			arrow + " The " + ui.Highlight.Sprint(codec.CipherShift) + " cipher only stores characters up to U+00F8; " +
			"set codec.cipher to " + ui.Highlight.Sprint(codec.CipherSecretbox) + " for other text"

	case errors.Is(err, kerrors.ErrImportFormat):
		return cross + " Import failed: " + err.Error() + "\n" +
			arrow + " Make sure the file was produced by " + ui.Code.Sprint("coffer export") + " with the same codec settings"

	case errors.Is(err, kerrors.ErrFileNotFound):
		return cross + " " + err.Error()

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return cross + " " + err.Error()

	default:
		return cross + " " + err.Error()
	}
}

// reportedError marks an error whose message was already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// reported wraps err so main exits non-zero without printing it twice.
func reported(err error) error {
	return reportedError{err}
}

// IsReported reports whether a command already showed err to the user.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
