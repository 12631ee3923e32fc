package pcdio

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/decoder"
	"github.com/arloliu/pcdio/encoder"
	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/internal/options"
)

type config struct {
	logger            *slog.Logger
	codec             compress.Codec
	compression       format.CompressionType
	parallel          bool
	workers           int
	explicitByteOrder bool
}

// Option configures a Reader or Writer.
type Option = options.Option[*config]

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		logger:      discardLogger(),
		codec:       compress.Default(),
		compression: format.CompressionLZF,
		parallel:    true,
		workers:     runtime.GOMAXPROCS(0),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger for debug events. A nil logger discards them, which is the default.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = discardLogger()
		}
		c.logger = logger
	})
}

// WithCompression selects the built-in codec for binary_compressed bodies. The default is
// LZF, the codec PCL uses; files written with any other codec can only be read back with
// the same option.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		codec, err := compress.GetCodec(ct)
		if err != nil {
			return err
		}
		c.codec, c.compression = codec, ct

		return nil
	})
}

// WithCodec sets a custom codec for binary_compressed bodies.
func WithCodec(codec compress.Codec) Option {
	return options.New(func(c *config) error {
		if codec == nil {
			return fmt.Errorf("pcdio: nil codec")
		}
		c.codec = codec

		return nil
	})
}

// WithParallel enables or disables parallel decoding of memory-resident binary bodies.
// It is enabled by default.
func WithParallel(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.parallel = enabled
	})
}

// WithWorkers bounds the number of goroutines of the parallel decoder. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("pcdio: workers must be positive, got %d", n)
		}
		c.workers = n

		return nil
	})
}

// WithExplicitByteOrder forces per-element little-endian conversion even when the host is
// little-endian.
func WithExplicitByteOrder(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.explicitByteOrder = enabled
	})
}

func (c *config) transcoder() endian.Transcoder {
	if c.explicitByteOrder {
		return endian.NewExplicitTranscoder()
	}

	return endian.NewTranscoder()
}

func (c *config) decoderOptions() []decoder.Option {
	return []decoder.Option{
		decoder.WithTranscoder(c.transcoder()),
		decoder.WithCodec(c.codec),
		decoder.WithWorkers(c.workers),
	}
}

func (c *config) encoderOptions() []encoder.Option {
	return []encoder.Option{
		encoder.WithTranscoder(c.transcoder()),
		encoder.WithCodec(c.codec, c.compression),
	}
}
