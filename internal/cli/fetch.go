package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-studio/internal/app"
	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/supervisor"
)

var errStopped = errors.New("download stopped")

func newFetchCommand(e *env) *cobra.Command {
	var quality string
	var mp3, transcript bool

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Download one URL without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := model.Quality(quality)
			if !q.Valid() {
				return fmt.Errorf("unknown quality %q", quality)
			}
			if err := app.ValidateURL(args[0]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			f := newFetcher(e, cmd.ErrOrStderr())
			defer f.close()

			row, err := f.download(ctx, args[0], q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), row.Path)

			if mp3 && row.Kind == model.KindVideo {
				if err := f.derive(ctx, row, model.TaskTranscode, platform.MP3Path(row.Path)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), platform.MP3Path(row.Path))
			}
			if transcript {
				if err := f.derive(ctx, row, model.TaskTranscribe, platform.TranscriptPath(row.Path)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), platform.TranscriptPath(row.Path))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&quality, "quality", string(model.QualityBest), "best, mp4 or mp3")
	cmd.Flags().BoolVar(&mp3, "mp3", false, "extract MP3 audio after downloading a video")
	cmd.Flags().BoolVar(&transcript, "transcript", false, "write a transcript after downloading")
	return cmd
}

// fetcher drives a headless studio. Studio calls run on the queue goroutine,
// like the UI goroutine in the desktop app.
type fetcher struct {
	e       *env
	svc     *services
	queue   *supervisor.Queue
	studio  *app.Studio
	changes chan struct{}
	stopQ   context.CancelFunc
	out     io.Writer
}

func newFetcher(e *env, out io.Writer) *fetcher {
	f := &fetcher{
		e:       e,
		svc:     newServices(e),
		queue:   supervisor.NewQueue(),
		changes: make(chan struct{}, 1),
		out:     out,
	}

	cfg := f.svc.studioConfig(e, f.queue.Do)
	cfg.DownloadDir = func() string { return downloadDir(e, homeDownloads) }
	cfg.Notify = func(msg string) { fmt.Fprintln(out, msg) }
	f.studio = app.New(cfg)
	f.studio.Catalog().SetOnChange(func() {
		select {
		case f.changes <- struct{}{}:
		default:
		}
	})

	var qctx context.Context
	qctx, f.stopQ = context.WithCancel(context.Background())
	go f.queue.Run(qctx)
	return f
}

func (f *fetcher) close() {
	f.studio.Close()
	f.stopQ()
	f.svc.close(f.e)
}

// onQueue runs fn on the queue goroutine and waits for it
func (f *fetcher) onQueue(fn func()) {
	done := make(chan struct{})
	f.queue.Do(func() {
		fn()
		close(done)
	})
	<-done
}

// wait re-evaluates check after every catalog change until it reports done
func (f *fetcher) wait(ctx context.Context, check func() (bool, error)) error {
	for {
		var done bool
		var err error
		f.onQueue(func() { done, err = check() })
		if done || err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.changes:
		}
	}
}

func (f *fetcher) download(ctx context.Context, url string, q model.Quality) (model.CatalogRow, error) {
	var row model.CatalogRow
	var err error
	f.onQueue(func() { row, err = f.studio.Download(url, q) })
	if err != nil {
		return row, err
	}

	last := -1
	err = f.wait(ctx, func() (bool, error) {
		current, ok := f.studio.Catalog().Row(row.ID)
		if !ok {
			return false, errStopped
		}
		switch current.State {
		case model.RowCompleted:
			row = current
			return true, nil
		case model.RowFailed:
			return false, fmt.Errorf("download failed")
		}
		if current.Percent != last {
			last = current.Percent
			fmt.Fprintf(f.out, "%3d%%\n", last)
		}
		return false, nil
	})
	if errors.Is(err, context.Canceled) {
		f.onQueue(func() { _ = f.studio.Stop(row.ID) })
	}
	return row, err
}

func (f *fetcher) derive(ctx context.Context, row model.CatalogRow, kind model.TaskKind, output string) error {
	var err error
	f.onQueue(func() {
		if kind == model.TaskTranscode {
			err = f.studio.ExtractMP3(row.ID)
		} else {
			err = f.studio.Transcribe(row.ID)
		}
	})
	if err != nil {
		return err
	}

	err = f.wait(ctx, func() (bool, error) {
		current, ok := f.studio.Catalog().RowByPath(row.Path)
		return !ok || !current.Busy, nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			f.onQueue(func() { f.studio.CancelDerived(row.ID) })
		}
		return err
	}
	if !platform.IsRegularFile(output) {
		return fmt.Errorf("%s was not created", output)
	}
	return nil
}
