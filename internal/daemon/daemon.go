package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ukaji3/baip-parser-go/internal/config"
	"github.com/ukaji3/baip-parser-go/internal/fileutil"
	"github.com/ukaji3/baip-parser-go/pkg/baip"
)

// LockFilePrefix starts the name of the run lock file. The lock lives in the
// OS temporary directory, never next to the source workbooks.
const LockFilePrefix = "baip-parser-"

// Options holds the command line overrides.
type Options struct {
	// Filename processes a single file instead of scanning.
	Filename string
	// InboundDir overrides parse.inbound_dir.
	InboundDir string
	// Dry reports the rows without writing an output file.
	Dry bool
	// Batch stops after one iteration.
	Batch bool
	// Stdout receives the dry-run report and completion messages.
	// Nil means os.Stdout.
	Stdout io.Writer
}

// Iteration summarises one pass of the loop.
type Iteration struct {
	RunID string
	// Files are the workbooks considered.
	Files []string
	// FileErrors are the per-file open failures.
	FileErrors []error
	// Result is nil when there was nothing to process.
	Result *baip.DumpResult
	// Archived are the archive locations of the processed files.
	Archived []string
	// Locked is true when another run held the inbound lock.
	Locked bool
}

// Daemon drives extraction runs.
type Daemon struct {
	cfg        *config.Config
	opts       Options
	log        zerolog.Logger
	out        io.Writer
	inboundDir string
}

// New validates the source selection and returns a Daemon. A filename or
// inbound directory override forces batch mode.
func New(cfg *config.Config, opts Options, log zerolog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	inbound := cfg.Parse.InboundDir
	if opts.InboundDir != "" {
		expanded, err := config.ExpandPath(opts.InboundDir)
		if err != nil {
			return nil, err
		}
		inbound = expanded
	}
	if opts.Filename == "" && inbound == "" {
		return nil, &config.ConfigurationError{Option: "parse.inbound_dir", Err: errors.New("required when no file is given")}
	}
	if opts.Filename != "" || opts.InboundDir != "" {
		opts.Batch = true
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &Daemon{
		cfg:        cfg,
		opts:       opts,
		log:        log,
		out:        out,
		inboundDir: inbound,
	}, nil
}

// Run loops until ctx is cancelled, or once for dry and batch runs.
func (d *Daemon) Run(ctx context.Context) error {
	interval := time.Duration(d.cfg.Parse.ThreadSleep * float64(time.Second))

	for ctx.Err() == nil {
		_, err := d.RunOnce(ctx)

		switch {
		case d.opts.Dry:
			fmt.Fprintln(d.out, "Dry run iteration complete")
			return err
		case d.opts.Batch:
			fmt.Fprintln(d.out, "Batch run iteration complete")
			return err
		}

		if err != nil {
			d.log.Error().Err(err).Msg("iteration failed, retrying after sleep")
		}
		if !sleep(ctx, interval) {
			break
		}
	}

	d.log.Info().Msg("shutdown requested, stopping")
	return nil
}

// RunOnce performs a single iteration: discover, extract, dump and archive.
func (d *Daemon) RunOnce(ctx context.Context) (*Iteration, error) {
	it := &Iteration{RunID: uuid.NewString()}
	log := d.log.With().Str("run_id", it.RunID).Logger()

	lock := flock.New(d.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return it, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		it.Locked = true
		log.Warn().Str("lock", lock.Path()).Msg("another run holds the inbound lock, skipping iteration")
		return it, nil
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Msg("release run lock")
		}
	}()

	files, err := d.SourceFiles()
	if err != nil {
		return it, err
	}
	it.Files = files
	if len(files) == 0 {
		log.Debug().Str("inbound_dir", d.inboundDir).Msg("no files to process")
		return it, nil
	}

	opts := d.cfg.Options()
	opts.Logger = &log

	res, fileErrs, err := baip.Process(files, opts, d.opts.Dry)
	it.FileErrors = fileErrs
	if err != nil {
		return it, err
	}
	it.Result = res

	if d.opts.Dry {
		d.report(res, opts)
		return it, nil
	}

	if d.cfg.Parse.ArchiveDir != "" && d.opts.Filename == "" {
		archived, err := fileutil.ArchiveFiles(files, d.inboundDir, d.cfg.Parse.ArchiveDir)
		it.Archived = archived
		if err != nil {
			log.Error().Err(err).Msg("archive failed")
		}
	}

	log.Info().
		Str("output", res.Path).
		Int("files", len(files)).
		Int("failed", len(fileErrs)).
		Int("rows", len(res.Rows)).
		Msg("iteration complete")
	return it, nil
}

// SourceFiles returns the workbooks for the next iteration.
func (d *Daemon) SourceFiles() ([]string, error) {
	if d.opts.Filename != "" {
		return []string{d.opts.Filename}, nil
	}

	d.log.Debug().Str("inbound_dir", d.inboundDir).Str("filter", d.cfg.Parse.FileFilter).Msg("sourcing files")
	res, err := fileutil.ScanDirectory(d.inboundDir, fileutil.ScanOptions{
		Filter: d.cfg.Parse.FileFilter,
	})
	if err != nil {
		return nil, err
	}
	for _, scanErr := range res.Errors {
		d.log.Warn().Err(scanErr).Msg("scan error")
	}
	return res.Files, nil
}

// LockPath returns the run lock location, derived from the source so that
// runs over the same inbound directory or file exclude each other.
func (d *Daemon) LockPath() string {
	source := d.inboundDir
	if d.opts.Filename != "" {
		if abs, err := filepath.Abs(d.opts.Filename); err == nil {
			source = abs
		} else {
			source = d.opts.Filename
		}
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(source)))
	return filepath.Join(os.TempDir(), LockFilePrefix+id.String()+".lock")
}

// sleep waits for d or until ctx is done. It reports whether the full
// interval elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
