package main

import (
	"context"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uttarayan21/write-monitor/http"
	"github.com/uttarayan21/write-monitor/inmem"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
	"github.com/uttarayan21/write-monitor/progress"
	"github.com/uttarayan21/write-monitor/prom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var copyCmd = &cobra.Command{
	Use:   "copy SRC DST",
	Short: "Copy SRC to DST while reporting bytes written (\"-\" is stdin or stdout)",
	Args:  cobra.ExactArgs(2),
	Run:   copyF,
}

// CopyFlags are the flags of the copy command.
type CopyFlags struct {
	name     string
	interval time.Duration
	bar      bool
	listen   string
}

var copyFlags CopyFlags

func init() {
	fs := copyCmd.Flags()
	fs.StringVarP(&copyFlags.name, "name", "n", "", "transfer name (default DST)")
	fs.DurationVarP(&copyFlags.interval, "interval", "i", progress.DefaultInterval, "how often progress is polled")
	fs.BoolVar(&copyFlags.bar, "bar", false, "draw a progress bar on stderr")
	fs.StringVarP(&copyFlags.listen, "listen", "l", "", "serve /v1/transfers and /metrics on this address while copying")
	viper.BindPFlag("interval", fs.Lookup("interval"))
	viper.BindPFlag("bar", fs.Lookup("bar"))
	viper.BindPFlag("listen", fs.Lookup("listen"))
}

func copyF(cmd *cobra.Command, args []string) {
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// A second interrupt kills the process.
	context.AfterFunc(ctx, stop)

	c := &copier{
		Src:      args[0],
		Dst:      args[1],
		Name:     copyFlags.name,
		Interval: viper.GetDuration("interval"),
		Bar:      viper.GetBool("bar"),
		Listen:   viper.GetString("listen"),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   logger,
	}
	if _, err := c.Run(ctx); err != nil {
		logger.Error("copy failed", zap.Error(err))
		os.Exit(1)
	}
}

// copier copies one source to one destination through an iocounter.Writer
// and reports progress from a Monitor of that writer.
type copier struct {
	Src, Dst string
	Name     string
	Interval time.Duration
	Bar      bool
	Listen   string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger

	// listening is told the bound address once the status server is up.
	listening func(net.Addr)
}

// Run copies and returns the number of bytes the destination accepted.
func (c *copier) Run(ctx context.Context) (uint64, error) {
	src, total, err := c.openSource()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := c.openDest()
	if err != nil {
		return 0, err
	}
	// Closing twice is harmless; the copy closes dst itself to report errors.
	defer dst.Close()
	w := iocounter.NewWriter(dst)

	name := c.Name
	if name == "" {
		name = c.Dst
	}

	transfers := inmem.NewService()
	tid, err := transfers.RegisterTransfer(ctx, name, total, w.Monitor())
	if err != nil {
		return 0, err
	}
	defer transfers.UnregisterTransfer(context.Background(), tid)

	logger := c.Logger.With(zap.String("transfer", tid))
	logger.Info("copy started",
		zap.String("src", c.Src),
		zap.String("dst", c.Dst),
		zap.Uint64("total", total),
	)

	observers := progress.Observers{progress.NewLogObserver(logger, name)}
	if c.Bar {
		observers = append(observers, progress.NewBarObserver(total, c.Stderr))
	}
	reporter := &progress.Reporter{
		Counter:  w.Monitor(),
		Total:    total,
		Interval: c.Interval,
		Observer: observers,
	}

	var srv *nethttp.Server
	var ln net.Listener
	if c.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(prom.NewTransferCollector(transfers))
		reg.MustRegister(prom.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "wmon",
			Name:      "bytes_written_total",
			Help:      "Bytes written by this wmon copy.",
		}, w.Monitor()))

		ln, err = net.Listen("tcp", c.Listen)
		if err != nil {
			return 0, errors.Wrapf(err, "listening on %s", c.Listen)
		}
		logger.Info("serving transfer status", zap.String("addr", ln.Addr().String()))
		if c.listening != nil {
			c.listening(ln.Addr())
		}
		srv = &nethttp.Server{Handler: http.NewAPIHandler(transfers, reg, logger)}
	}

	g, gctx := errgroup.WithContext(ctx)
	copied := make(chan struct{})

	reportCtx, stopReport := context.WithCancelCause(gctx)
	defer stopReport(nil)
	g.Go(func() error {
		// Run only fails once reportCtx ends, and the copy reports why.
		reporter.Run(reportCtx)
		return nil
	})

	if srv != nil {
		g.Go(func() error {
			if err := srv.Serve(ln); err != nethttp.ErrServerClosed {
				return errors.Wrap(err, "serving transfer status")
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-copied:
			case <-gctx.Done():
			}
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		defer close(copied)

		done := make(chan error, 1)
		go func() { done <- c.copy(w, contextReader{ctx: gctx, r: src}) }()

		select {
		case err := <-done:
			if err != nil {
				stopReport(err)
				return err
			}
			stopReport(progress.ErrComplete)
			return nil
		case <-gctx.Done():
			// Closing the source interrupts a Read blocked on an idle input.
			// A source that cannot be interrupted is left to the abandoned
			// copy goroutine.
			src.Close()
			return gctx.Err()
		}
	})

	err = g.Wait()
	return w.BytesWritten(), err
}

// copy writes src to w, then flushes and closes w.
func (c *copier) copy(w *iocounter.Writer[io.WriteCloser], src io.Reader) error {
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return errors.Wrapf(err, "copying %s to %s", c.Src, c.Dst)
	}
	if err := w.Flush(); err != nil {
		w.Close()
		return errors.Wrapf(err, "flushing %s", c.Dst)
	}
	return errors.Wrapf(w.Close(), "closing %s", c.Dst)
}

// openSource returns the source and its size, or 0 when the size is unknown.
func (c *copier) openSource() (io.ReadCloser, uint64, error) {
	if c.Src == "-" {
		if rc, ok := c.Stdin.(io.ReadCloser); ok {
			return rc, 0, nil
		}
		return io.NopCloser(c.Stdin), 0, nil
	}

	f, err := os.Open(c.Src)
	if err != nil {
		return nil, 0, errors.Wrap(err, "opening source")
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, errors.Wrap(err, "reading source size")
	}
	var size uint64
	if fi.Mode().IsRegular() {
		size = uint64(fi.Size())
	}
	return f, size, nil
}

func (c *copier) openDest() (io.WriteCloser, error) {
	if c.Dst == "-" {
		return nopWriteCloser{c.Stdout}, nil
	}

	f, err := os.Create(c.Dst)
	if err != nil {
		return nil, errors.Wrap(err, "creating destination")
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
