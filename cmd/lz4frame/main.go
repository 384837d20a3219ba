// Command lz4frame compresses and inspects LZ4 frames.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andybalholm/lz4frame"
	"github.com/andybalholm/lz4frame/internal/app"
	"github.com/andybalholm/lz4frame/internal/baseline"
)

const usage = `Usage: lz4frame <command> [flags] [in [out]]

Commands:
  compress     compress in (default stdin) to out (default stdout)
  decompress   decompress in to out
               with -m, every argument is an input; compress writes
               <in>.lz4 and decompress strips the .lz4 suffix
  info         print the frame header and block layout of in
  bench        compare lz4frame with other codecs on in
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var (
		cmd  = os.Args[1]
		args = os.Args[2:]
	)

	flags := pflag.NewFlagSet("lz4frame "+cmd, pflag.ContinueOnError)
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	multiple := flags.BoolP("multiple", "m", false, "process each argument as a separate input file")

	var run func(ctx context.Context, lg *zap.Logger, args []string) error
	switch cmd {
	case "compress":
		var opt lz4frame.WriterOptions
		var size string
		flags.IntVarP(&opt.Level, "level", "l", 0, "compression level, 3 and above use the high-compression compressor")
		flags.StringVarP(&size, "block-size", "B", "64kb", "block size: 64kb, 256kb, 1mb or 4mb")
		flags.BoolVar(&opt.BlockChecksum, "block-checksum", false, "add a checksum to every block")
		flags.BoolVar(&opt.NoContentChecksum, "no-content-checksum", false, "omit the content checksum")
		run = func(ctx context.Context, lg *zap.Logger, args []string) error {
			s, err := lz4frame.BlockSizeString(size)
			if err != nil {
				return errors.Wrap(err, "block size")
			}
			opt.Size = s
			opt.Logger = lg
			conv := func(ctx context.Context, lg *zap.Logger, args []string) error {
				return compress(ctx, lg, opt, args)
			}
			if *multiple {
				return each(ctx, lg, args, func(name string) (string, error) {
					return name + ".lz4", nil
				}, conv)
			}
			return conv(ctx, lg, args)
		}
	case "decompress":
		run = func(ctx context.Context, lg *zap.Logger, args []string) error {
			if *multiple {
				return each(ctx, lg, args, func(name string) (string, error) {
					out := strings.TrimSuffix(name, ".lz4")
					if out == name {
						return "", errors.Errorf("%s: no .lz4 suffix", name)
					}
					return out, nil
				}, decompress)
			}
			return decompress(ctx, lg, args)
		}
	case "info":
		run = info
	case "bench":
		run = bench
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	app.Run(*verbose, func(ctx context.Context, lg *zap.Logger) error {
		return run(ctx, lg, flags.Args())
	})
}

// each runs conv on every input in names, a few at a time. output maps an
// input name to the file conv writes.
func each(
	ctx context.Context,
	lg *zap.Logger,
	names []string,
	output func(name string) (string, error),
	conv func(ctx context.Context, lg *zap.Logger, args []string) error,
) error {
	if len(names) == 0 {
		return errors.New("no input files")
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, name := range names {
		name := name
		out, err := output(name)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := conv(ctx, lg.With(zap.String("file", name)), []string{name, out}); err != nil {
				return errors.Wrap(err, name)
			}
			return nil
		})
	}
	return g.Wait()
}

// files opens the input and output named by args, defaulting to stdin and
// stdout. The returned function closes both.
func files(args []string) (io.Reader, io.Writer, func() error, error) {
	var (
		in  io.ReadCloser  = io.NopCloser(os.Stdin)
		out io.WriteCloser = nopWriteCloser{os.Stdout}
	)
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "open input")
		}
		in = f
	}
	if len(args) > 1 && args[1] != "-" {
		f, err := os.Create(args[1])
		if err != nil {
			_ = in.Close()
			return nil, nil, nil, errors.Wrap(err, "create output")
		}
		out = f
	}
	return in, out, func() error {
		return multierr.Append(in.Close(), out.Close())
	}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func compress(ctx context.Context, lg *zap.Logger, opt lz4frame.WriterOptions, args []string) (rerr error) {
	in, out, closeFiles, err := files(args)
	if err != nil {
		return err
	}
	defer func() { multierr.AppendInto(&rerr, closeFiles()) }()

	w, err := lz4frame.NewWriter(out, opt)
	if err != nil {
		return err
	}
	n, err := w.ReadFrom(ctxReader{ctx: ctx, r: in})
	if err != nil {
		return multierr.Append(errors.Wrap(err, "compress"), w.Close())
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "close")
	}
	lg.Info("Compressed",
		zap.String("in", humanize.Bytes(uint64(n))),
		zap.String("out", humanize.Bytes(uint64(w.Written()))),
		zap.Int("blocks", w.Blocks()),
	)
	return nil
}

func decompress(ctx context.Context, lg *zap.Logger, args []string) (rerr error) {
	in, out, closeFiles, err := files(args)
	if err != nil {
		return err
	}
	defer func() { multierr.AppendInto(&rerr, closeFiles()) }()

	r := lz4frame.NewReader(ctxReader{ctx: ctx, r: in}, lz4frame.ReaderOptions{Logger: lg})
	defer func() { multierr.AppendInto(&rerr, r.Close()) }()

	n, err := io.Copy(out, r)
	if err != nil {
		return errors.Wrap(err, "decompress")
	}
	lg.Info("Decompressed", zap.String("out", humanize.Bytes(uint64(n))))
	return nil
}

func info(ctx context.Context, lg *zap.Logger, args []string) (rerr error) {
	if len(args) != 1 {
		return errors.New("info: expected one input file")
	}
	in, _, closeFiles, err := files(args[:1])
	if err != nil {
		return err
	}
	defer func() { multierr.AppendInto(&rerr, closeFiles()) }()

	var (
		total   int64
		encoded int64
	)
	r := lz4frame.NewReader(ctxReader{ctx: ctx, r: in}, lz4frame.ReaderOptions{
		Logger: lg,
		OnBlock: func(b lz4frame.BlockStat) {
			kind := "compressed"
			if !b.Compressed {
				kind = "stored"
			}
			fmt.Printf("block %5d %10s %8d -> %8d\n", b.Index, kind, b.Decompressed, b.Size)
			total += int64(b.Decompressed)
			encoded += int64(b.Size)
		},
	})
	defer func() { multierr.AppendInto(&rerr, r.Close()) }()

	fi, err := r.Info()
	if err != nil {
		return err
	}
	fmt.Printf("header %x: block size %s, block checksum %v, content checksum %v\n",
		fi.Header[:], fi.Size, fi.BlockChecksum, fi.ContentChecksum)

	if _, err := io.Copy(io.Discard, r); err != nil {
		return errors.Wrap(err, "read frame")
	}
	fmt.Printf("total %s -> %s\n", humanize.Bytes(uint64(total)), humanize.Bytes(uint64(encoded)))
	return nil
}

func bench(ctx context.Context, lg *zap.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("bench: expected one input file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	codecs, err := baseline.Codecs()
	if err != nil {
		return err
	}
	lg.Debug("Benchmarking", zap.Int("codecs", len(codecs)), zap.Int("bytes", len(data)))
	for _, c := range codecs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := baseline.Measure(c, data)
		if err != nil {
			return err
		}
		fmt.Printf("%-14s %10s -> %10s  ratio %5.2f  %s/s\n",
			res.Name,
			humanize.Bytes(uint64(res.In)),
			humanize.Bytes(uint64(res.Out)),
			res.Ratio(),
			humanize.Bytes(uint64(res.Throughput())),
		)
	}
	return nil
}
